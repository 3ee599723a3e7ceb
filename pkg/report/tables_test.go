package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func scoredFixture() []ScoredResult {
	metrics := sampleMetrics()
	return Score(metrics, DefaultWeights())
}

func TestWritePerformanceCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePerformanceCSV(&buf, scoredFixture()); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d records", len(records))
	}
	if records[0][0] != "database" || records[0][9] != "overall" {
		t.Errorf("unexpected header: %v", records[0])
	}
	// Rows come out in rank order, the winner first.
	if records[1][0] != DatabaseInfluxDB {
		t.Errorf("first row = %s, want %s", records[1][0], DatabaseInfluxDB)
	}
}

func TestWriteRankingMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRankingMarkdown(&buf, scoredFixture()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "## Overall Ranking") {
		t.Error("missing section header")
	}
	if !strings.Contains(out, "| 1 | influxdb |") {
		t.Errorf("winner row missing:\n%s", out)
	}
	for _, db := range Databases {
		if !strings.Contains(out, db) {
			t.Errorf("database %s missing from table", db)
		}
	}
}

func TestWriteSecurityMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSecurityMarkdown(&buf, scoredFixture()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "CVE-2019-20933") {
		t.Error("influxdb CVE missing")
	}
	if !strings.Contains(out, "CVE-2023-5869") {
		t.Error("postgresql CVE missing")
	}
}

func TestWriteCostMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCostMarkdown(&buf, scoredFixture()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "## Cost Projection (monthly)") {
		t.Error("missing section header")
	}
	// 400 MiB at $0.10/GiB plus the $120 postgres baseline.
	if !strings.Contains(out, "$120.04") {
		t.Errorf("postgres total missing:\n%s", out)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KiB"},
		{5 << 20, "5.00 MiB"},
		{3 << 30, "3.00 GiB"},
	}
	for _, c := range cases {
		if got := formatBytes(c.in); got != c.want {
			t.Errorf("formatBytes(%d) = %s, want %s", c.in, got, c.want)
		}
	}
}
