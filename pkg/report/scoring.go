package report

import (
	"io/ioutil"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Weights controls how the per-dimension scores combine into the overall
// score. They must sum to 1.
type Weights struct {
	Ingestion float64 `yaml:"ingestion"`
	Query     float64 `yaml:"query"`
	Storage   float64 `yaml:"storage"`
	Index     float64 `yaml:"index"`
	Security  float64 `yaml:"security"`
}

func DefaultWeights() Weights {
	return Weights{
		Ingestion: 0.25,
		Query:     0.25,
		Storage:   0.20,
		Index:     0.20,
		Security:  0.10,
	}
}

// LoadWeights reads a weight override file, falling back to the default for
// any dimension the file leaves at zero.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return w, errors.Wrapf(err, "cannot read weights file %s", path)
	}
	var override Weights
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return w, errors.Wrapf(err, "cannot parse weights file %s", path)
	}
	if override.Ingestion > 0 {
		w.Ingestion = override.Ingestion
	}
	if override.Query > 0 {
		w.Query = override.Query
	}
	if override.Storage > 0 {
		w.Storage = override.Storage
	}
	if override.Index > 0 {
		w.Index = override.Index
	}
	if override.Security > 0 {
		w.Security = override.Security
	}
	return w, nil
}

// ScoredResult is the normalized 0-100 score of one database per dimension
// plus the weighted overall.
type ScoredResult struct {
	Database string `json:"database"`

	IngestionScore float64 `json:"ingestion_score"`
	QueryScore     float64 `json:"query_score"`
	StorageScore   float64 `json:"storage_score"`
	IndexScore     float64 `json:"index_score"`
	SecurityScore  float64 `json:"security_score"`

	Overall float64 `json:"overall"`
	Rank    int     `json:"rank"`

	Metrics  DatabaseMetrics     `json:"metrics"`
	Security *SecurityAssessment `json:"security"`
}

// Score normalizes the raw metrics across the compared databases and ranks
// them by weighted overall score. Latency and storage are inverted so lower
// raw values score higher.
func Score(metrics []DatabaseMetrics, weights Weights) []ScoredResult {
	results := make([]ScoredResult, len(metrics))

	ingestion := make([]float64, len(metrics))
	latency := make([]float64, len(metrics))
	storage := make([]float64, len(metrics))
	index := make([]float64, len(metrics))
	for i, m := range metrics {
		ingestion[i] = m.IngestionRate
		latency[i] = m.QueryLatencyMs
		storage[i] = float64(m.StorageBytes)
		index[i] = m.IndexEfficiency
	}

	ingestionScores := normalize(ingestion, false)
	latencyScores := normalize(latency, true)
	storageScores := normalize(storage, true)
	indexScores := normalize(index, false)

	for i, m := range metrics {
		sec := AssessSecurity(m.Database)
		r := ScoredResult{
			Database:       m.Database,
			IngestionScore: ingestionScores[i],
			QueryScore:     latencyScores[i],
			StorageScore:   storageScores[i],
			IndexScore:     indexScores[i],
			SecurityScore:  sec.Overall,
			Metrics:        m,
			Security:       sec,
		}
		r.Overall = weights.Ingestion*r.IngestionScore +
			weights.Query*r.QueryScore +
			weights.Storage*r.StorageScore +
			weights.Index*r.IndexScore +
			weights.Security*r.SecurityScore
		results[i] = r
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Overall > results[j].Overall
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// normalize min-max scales values onto 0-100. With invert set the smallest
// raw value maps to 100. Equal values all map to 100, and a zero value with
// invert set means "not measured" and maps to 0.
func normalize(values []float64, invert bool) []float64 {
	scores := make([]float64, len(values))
	min, max, any := minMax(values)
	if !any {
		return scores
	}
	for i, v := range values {
		if v == 0 {
			continue
		}
		if max == min {
			scores[i] = 100
			continue
		}
		n := (v - min) / (max - min)
		if invert {
			n = 1 - n
		}
		scores[i] = 100 * n
	}
	return scores
}

func minMax(values []float64) (min, max float64, any bool) {
	for _, v := range values {
		if v == 0 {
			continue
		}
		if !any {
			min, max, any = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, any
}
