package report

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// resultFile is the loose shape shared by the load and query result JSON
// documents. Only the totals are inspected, the rest is tool-specific.
type resultFile struct {
	ResultFormatVersion string                 `json:"ResultFormatVersion"`
	Totals              map[string]interface{} `json:"Totals"`
}

// indexReportFile matches the index analysis JSON document.
type indexReportFile struct {
	Pairs []struct {
		ImprovementFactor float64 `json:"improvement_factor"`
	} `json:"pairs"`
	Plan []string `json:"optimization_plan"`
}

// storageFile is written by the storage measurement step.
type storageFile struct {
	Database  string `json:"database"`
	SizeBytes int64  `json:"size_bytes"`
}

// Collect scans root/<database>/ for result JSON files of the benchmark
// tools and assembles per-database metrics. Databases with no result
// directory are skipped.
func Collect(root string) ([]DatabaseMetrics, error) {
	var collected []DatabaseMetrics
	for _, db := range Databases {
		dir := filepath.Join(root, db)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		metrics, err := collectDatabase(dir, db)
		if err != nil {
			return nil, errors.Wrapf(err, "collecting %s results", db)
		}
		collected = append(collected, *metrics)
	}
	if len(collected) == 0 {
		return nil, errors.Errorf("no result directories found under %s", root)
	}
	return collected, nil
}

func collectDatabase(dir, db string) (*DatabaseMetrics, error) {
	metrics := &DatabaseMetrics{
		Database:        db,
		IndexEfficiency: 1.0,
		CollectedAt:     time.Now().UTC(),
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		raw, err := ioutil.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read %s", file)
		}
		if err := absorb(metrics, raw); err != nil {
			return nil, errors.Wrapf(err, "cannot parse %s", file)
		}
	}
	return metrics, nil
}

// absorb inspects one result document and folds whatever metrics it carries
// into the accumulator. The document kind is detected from its keys.
func absorb(metrics *DatabaseMetrics, raw []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return err
	}

	switch {
	case hasKey(probe, "Totals"):
		var rf resultFile
		if err := json.Unmarshal(raw, &rf); err != nil {
			return err
		}
		absorbTotals(metrics, rf.Totals)
	case hasKey(probe, "optimization_plan"):
		var irf indexReportFile
		if err := json.Unmarshal(raw, &irf); err != nil {
			return err
		}
		absorbIndexReport(metrics, &irf)
	case hasKey(probe, "size_bytes"):
		var sf storageFile
		if err := json.Unmarshal(raw, &sf); err != nil {
			return err
		}
		metrics.StorageBytes = sf.SizeBytes
	}
	return nil
}

func hasKey(probe map[string]json.RawMessage, key string) bool {
	_, ok := probe[key]
	return ok
}

func absorbTotals(metrics *DatabaseMetrics, totals map[string]interface{}) {
	// Load results carry the row ingestion rate.
	if v, ok := totals["rowRate"].(float64); ok {
		metrics.IngestionRate = v
	}
	// Query results carry per-label latency quantiles, the all-queries
	// median is the headline number.
	if quantiles, ok := totals["overallQuantiles"].(map[string]interface{}); ok {
		if all, ok := quantiles["all_queries"].(map[string]interface{}); ok {
			if q50, ok := all["q50"].(float64); ok {
				metrics.QueryLatencyMs = q50
			}
		}
	}
}

func absorbIndexReport(metrics *DatabaseMetrics, irf *indexReportFile) {
	if len(irf.Pairs) == 0 {
		return
	}
	var sum float64
	for _, p := range irf.Pairs {
		sum += p.ImprovementFactor
	}
	metrics.IndexEfficiency = sum / float64(len(irf.Pairs))
}
