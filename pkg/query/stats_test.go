package query

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestStatGroupAggregates(t *testing.T) {
	g := newStatGroup(10)
	for _, v := range []float64{100, 200, 300} {
		g.push(v, 50)
	}

	if g.count != 3 {
		t.Errorf("count = %d, want 3", g.count)
	}
	if g.rows != 150 {
		t.Errorf("rows = %d, want 150", g.rows)
	}
	if math.Abs(g.Mean()-200) > 1 {
		t.Errorf("mean = %v, want ~200", g.Mean())
	}
	if math.Abs(g.Min()-100) > 1 {
		t.Errorf("min = %v, want ~100", g.Min())
	}
	if math.Abs(g.Max()-300) > 1 {
		t.Errorf("max = %v, want ~300", g.Max())
	}
}

func TestStatGroupRowThroughput(t *testing.T) {
	g := newStatGroup(10)
	// 1000 rows over 2 seconds of query time.
	g.push(1000, 500)
	g.push(1000, 500)

	got := g.RowThroughput()
	if math.Abs(got-500) > 1 {
		t.Errorf("row throughput = %v, want ~500 rows/sec", got)
	}

	empty := newStatGroup(10)
	if empty.RowThroughput() != 0 {
		t.Error("empty group should have zero throughput")
	}
}

func TestStatPoolResetsState(t *testing.T) {
	s := GetStat().Init([]byte("some_query"), 12.5, 42).MarkWarmup()
	statPool.Put(s)

	s2 := GetStat()
	if s2.isWarmup || s2.failed || s2.rowCount != 0 || s2.value != 0 || len(s2.label) != 0 {
		t.Errorf("recycled stat not reset: %+v", s2)
	}
}

func TestDeriveRecommendations(t *testing.T) {
	slow := newStatGroup(10)
	for i := 0; i < 5; i++ {
		slow.push(3000, 10000)
	}

	unstable := newStatGroup(10)
	for _, v := range []float64{100, 1600, 100, 1600} {
		unstable.push(v, 1000)
	}

	trickle := newStatGroup(10)
	trickle.push(1000, 10)

	healthy := newStatGroup(10)
	for i := 0; i < 5; i++ {
		healthy.push(50, 5000)
	}

	groups := map[string]*statGroup{
		labelAllQueries: healthy,
		"slow_scan":     slow,
		"unstable_scan": unstable,
		"trickle_scan":  trickle,
		"healthy_scan":  healthy,
	}

	recs := deriveRecommendations(groups)

	assertRec := func(substr string, want bool) {
		found := false
		for _, r := range recs {
			if strings.Contains(r, substr) {
				found = true
			}
		}
		if found != want {
			t.Errorf("recommendation containing %q: found=%v, want %v\nrecs: %v", substr, found, want, recs)
		}
	}

	assertRec("slow_scan: mean latency", true)
	assertRec("unstable_scan: latency stddev", true)
	assertRec("trickle_scan: row throughput", true)
	assertRec("healthy_scan", false)
	assertRec(labelAllQueries, false)
}

func TestStatProcessorAcceptsSendsBeforeProcessing(t *testing.T) {
	limit := uint64(10)
	sp := newStatProcessor(&statProcessorArgs{limit: &limit})
	sp.prepare(1)

	// A worker can race ahead of the processing goroutine. Its send has to
	// land on a live channel even when processing has not started yet.
	sent := make(chan struct{})
	go func() {
		sp.send([]*Stat{GetStat().Init([]byte("early_send"), 12.5, 42)})
		close(sent)
	}()

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("send blocked before processing started")
	}

	go sp.process(1)
	sp.CloseAndWait()

	g, ok := sp.GetGroups()["early_send"]
	if !ok {
		t.Fatal("early stat missing from groups")
	}
	if g.count != 1 {
		t.Errorf("group count = %d, want 1", g.count)
	}
}
