// Package report collects benchmark results across databases, scores them
// and renders comparison tables, charts and an HTML dashboard.
package report

import "time"

// Canonical database names, also the subdirectory names the collector scans.
const (
	DatabasePostgreSQL = "postgresql"
	DatabaseInfluxDB   = "influxdb"
	DatabaseMongoDB    = "mongodb"
)

// Databases lists the compared systems in report order.
var Databases = []string{DatabasePostgreSQL, DatabaseInfluxDB, DatabaseMongoDB}

// DatabaseMetrics is everything the scorer needs to know about one database,
// assembled from the result files of the individual benchmark tools.
type DatabaseMetrics struct {
	Database string `json:"database"`

	// Rows ingested per second during the load benchmark.
	IngestionRate float64 `json:"ingestion_rate"`
	// Median latency over the canned query suite, milliseconds.
	QueryLatencyMs float64 `json:"query_latency_ms"`
	// On-disk footprint of the loaded dataset.
	StorageBytes int64 `json:"storage_bytes"`
	// Mean improvement factor of tag/index-filtered queries, 1.0 when no
	// index analysis was run for the database.
	IndexEfficiency float64 `json:"index_efficiency"`

	CollectedAt time.Time `json:"collected_at"`
}

// HasIngestion reports whether a load result was found.
func (m *DatabaseMetrics) HasIngestion() bool { return m.IngestionRate > 0 }

// HasQueries reports whether a query result was found.
func (m *DatabaseMetrics) HasQueries() bool { return m.QueryLatencyMs > 0 }
