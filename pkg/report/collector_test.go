package report

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, root, db, name, content string) {
	t.Helper()
	dir := filepath.Join(root, db)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

const loadResultFixture = `{
	"ResultFormatVersion": "0.1",
	"Totals": {"rowRate": 52341.5, "metricRate": 157024.5}
}`

const queryResultFixture = `{
	"ResultFormatVersion": "0.1",
	"Totals": {
		"overallQuantiles": {
			"all_queries": {"q0": 10.0, "q50": 31.25, "q100": 120.0}
		}
	}
}`

const indexReportFixture = `{
	"pairs": [
		{"tag": "patient_id", "improvement_factor": 6.0},
		{"tag": "vital_type", "improvement_factor": 2.0}
	],
	"optimization_plan": ["keep patient_id as a tag"]
}`

const storageFixture = `{"database": "influxdb", "size_bytes": 104857600}`

func TestCollectAssemblesMetrics(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, DatabaseInfluxDB, "load.json", loadResultFixture)
	writeFixture(t, root, DatabaseInfluxDB, "queries.json", queryResultFixture)
	writeFixture(t, root, DatabaseInfluxDB, "index.json", indexReportFixture)
	writeFixture(t, root, DatabaseInfluxDB, "storage.json", storageFixture)

	collected, err := Collect(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(collected) != 1 {
		t.Fatalf("expected 1 database, got %d", len(collected))
	}

	m := collected[0]
	if m.Database != DatabaseInfluxDB {
		t.Errorf("database = %s", m.Database)
	}
	if m.IngestionRate != 52341.5 {
		t.Errorf("ingestion rate = %v, want 52341.5", m.IngestionRate)
	}
	if m.QueryLatencyMs != 31.25 {
		t.Errorf("query latency = %v, want 31.25", m.QueryLatencyMs)
	}
	if m.IndexEfficiency != 4.0 {
		t.Errorf("index efficiency = %v, want 4.0", m.IndexEfficiency)
	}
	if m.StorageBytes != 104857600 {
		t.Errorf("storage bytes = %d, want 104857600", m.StorageBytes)
	}
}

func TestCollectSkipsMissingDatabases(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, DatabasePostgreSQL, "load.json", loadResultFixture)

	collected, err := Collect(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(collected) != 1 || collected[0].Database != DatabasePostgreSQL {
		t.Errorf("unexpected collection: %+v", collected)
	}
	// Index efficiency stays at the neutral baseline without an index report.
	if collected[0].IndexEfficiency != 1.0 {
		t.Errorf("index efficiency default = %v, want 1.0", collected[0].IndexEfficiency)
	}
}

func TestCollectEmptyRoot(t *testing.T) {
	if _, err := Collect(t.TempDir()); err == nil {
		t.Error("expected error when no result directories exist")
	}
}

func TestCollectRejectsMalformedJSON(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, DatabaseMongoDB, "broken.json", "{not json")

	if _, err := Collect(root); err == nil {
		t.Error("expected parse error")
	}
}
