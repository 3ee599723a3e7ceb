package report

import (
	"io/ioutil"
	"math"
	"path/filepath"
	"testing"
)

func sampleMetrics() []DatabaseMetrics {
	return []DatabaseMetrics{
		{Database: DatabasePostgreSQL, IngestionRate: 50000, QueryLatencyMs: 40, StorageBytes: 400 << 20, IndexEfficiency: 6},
		{Database: DatabaseInfluxDB, IngestionRate: 90000, QueryLatencyMs: 25, StorageBytes: 100 << 20, IndexEfficiency: 4},
		{Database: DatabaseMongoDB, IngestionRate: 30000, QueryLatencyMs: 80, StorageBytes: 600 << 20, IndexEfficiency: 2},
	}
}

func TestNormalize(t *testing.T) {
	scores := normalize([]float64{10, 20, 30}, false)
	if scores[0] != 0 || scores[2] != 100 {
		t.Errorf("ascending normalize = %v, want 0..100", scores)
	}
	if math.Abs(scores[1]-50) > 0.001 {
		t.Errorf("midpoint = %v, want 50", scores[1])
	}

	inverted := normalize([]float64{10, 20, 30}, true)
	if inverted[0] != 100 || inverted[2] != 0 {
		t.Errorf("inverted normalize = %v, want 100..0", inverted)
	}

	equal := normalize([]float64{5, 5, 5}, false)
	for _, s := range equal {
		if s != 100 {
			t.Errorf("equal values should all score 100, got %v", equal)
		}
	}

	withMissing := normalize([]float64{0, 20, 30}, true)
	if withMissing[0] != 0 {
		t.Errorf("unmeasured value should score 0, got %v", withMissing[0])
	}
}

func TestScoreRanksByWeightedOverall(t *testing.T) {
	results := Score(sampleMetrics(), DefaultWeights())

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("result %d has rank %d", i, r.Rank)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i].Overall > results[i-1].Overall {
			t.Errorf("results not sorted: %v before %v", results[i-1].Overall, results[i].Overall)
		}
	}

	// InfluxDB leads ingestion, latency and storage in the sample, enough
	// to win despite the lowest security score.
	if results[0].Database != DatabaseInfluxDB {
		t.Errorf("winner = %s, want %s", results[0].Database, DatabaseInfluxDB)
	}
}

func TestScoreAttachesSecurityAssessment(t *testing.T) {
	results := Score(sampleMetrics(), DefaultWeights())
	for _, r := range results {
		if r.Security == nil {
			t.Errorf("%s missing security assessment", r.Database)
			continue
		}
		if r.SecurityScore != r.Security.Overall {
			t.Errorf("%s security score %v != assessment overall %v", r.Database, r.SecurityScore, r.Security.Overall)
		}
	}
}

func TestLoadWeightsOverridesPartially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	content := []byte("ingestion: 0.5\nquery: 0.3\n")
	if err := ioutil.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	w, err := LoadWeights(path)
	if err != nil {
		t.Fatal(err)
	}
	if w.Ingestion != 0.5 || w.Query != 0.3 {
		t.Errorf("overrides not applied: %+v", w)
	}
	def := DefaultWeights()
	if w.Storage != def.Storage || w.Index != def.Index || w.Security != def.Security {
		t.Errorf("unset dimensions should keep defaults: %+v", w)
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	if _, err := LoadWeights(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
