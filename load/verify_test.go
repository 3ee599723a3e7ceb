package load

import "testing"

func TestVerifyRowCount(t *testing.T) {
	cases := []struct {
		desc      string
		written   uint64
		counted   uint64
		wantRatio float64
		wantOK    bool
	}{
		{"exact match", 1000, 1000, 1.0, true},
		{"at threshold", 100, 95, 0.95, true},
		{"just below threshold", 100, 94, 0.94, false},
		{"half lost", 1000, 500, 0.5, false},
		{"counted above written", 100, 105, 1.05, true},
		{"nothing written", 0, 0, 0, false},
		{"nothing written but counted", 0, 50, 0, false},
	}
	for _, c := range cases {
		ratio, ok := VerifyRowCount(c.written, c.counted)
		if ratio != c.wantRatio || ok != c.wantOK {
			t.Errorf("%s: VerifyRowCount(%d, %d) = (%v, %v), want (%v, %v)",
				c.desc, c.written, c.counted, ratio, ok, c.wantRatio, c.wantOK)
		}
	}
}

func TestRunnerExposesRowCount(t *testing.T) {
	runner := GetBenchmarkRunner(BenchmarkRunnerConfig{DBName: "health_iot_metrics"})
	common, isCommon := runner.(*CommonBenchmarkRunner)
	if !isCommon {
		t.Fatalf("unexpected runner type %T", runner)
	}
	if got := runner.RowCount(); got != 0 {
		t.Fatalf("fresh runner RowCount = %d, want 0", got)
	}
	common.rowCnt = 4321
	if got := runner.RowCount(); got != 4321 {
		t.Errorf("RowCount = %d, want 4321", got)
	}
}
