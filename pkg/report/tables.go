package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Monthly storage price used by the cost projection, dollars per GiB.
const storageDollarsPerGiB = 0.10

// operationalCosts is the assumed monthly operations baseline per database,
// in dollars, covering a single managed node of comparable size.
var operationalCosts = map[string]float64{
	DatabasePostgreSQL: 120,
	DatabaseInfluxDB:   150,
	DatabaseMongoDB:    140,
}

// WritePerformanceCSV renders the raw and normalized performance numbers.
func WritePerformanceCSV(w io.Writer, results []ScoredResult) error {
	cw := csv.NewWriter(w)
	header := []string{"database", "ingestion_rows_per_sec", "query_latency_ms", "storage_bytes", "index_efficiency", "ingestion_score", "query_score", "storage_score", "index_score", "overall"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Database,
			formatFloat(r.Metrics.IngestionRate),
			formatFloat(r.Metrics.QueryLatencyMs),
			strconv.FormatInt(r.Metrics.StorageBytes, 10),
			formatFloat(r.Metrics.IndexEfficiency),
			formatFloat(r.IngestionScore),
			formatFloat(r.QueryScore),
			formatFloat(r.StorageScore),
			formatFloat(r.IndexScore),
			formatFloat(r.Overall),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRankingMarkdown renders the headline comparison table.
func WriteRankingMarkdown(w io.Writer, results []ScoredResult) error {
	if _, err := fmt.Fprintln(w, "## Overall Ranking"); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Rank | Database | Overall | Ingestion | Query | Storage | Index | Security |")
	fmt.Fprintln(w, "|------|----------|---------|-----------|-------|---------|-------|----------|")
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "| %d | %s | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			r.Rank, r.Database, r.Overall, r.IngestionScore, r.QueryScore, r.StorageScore, r.IndexScore, r.SecurityScore); err != nil {
			return err
		}
	}
	return nil
}

// WritePerformanceMarkdown renders the raw performance numbers.
func WritePerformanceMarkdown(w io.Writer, results []ScoredResult) error {
	if _, err := fmt.Fprintln(w, "## Performance"); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Database | Ingestion (rows/s) | Query median (ms) | Storage | Index efficiency |")
	fmt.Fprintln(w, "|----------|--------------------|-------------------|---------|------------------|")
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "| %s | %.0f | %.2f | %s | %.2fx |\n",
			r.Database, r.Metrics.IngestionRate, r.Metrics.QueryLatencyMs,
			formatBytes(r.Metrics.StorageBytes), r.Metrics.IndexEfficiency); err != nil {
			return err
		}
	}
	return nil
}

// WriteSecurityMarkdown renders the security assessment comparison.
func WriteSecurityMarkdown(w io.Writer, results []ScoredResult) error {
	if _, err := fmt.Fprintln(w, "## Security"); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Database | Grade | Overall | Features | Compliance | Risk | Maturity | Known CVEs |")
	fmt.Fprintln(w, "|----------|-------|---------|----------|------------|------|----------|------------|")
	for _, r := range results {
		s := r.Security
		cves := ""
		for i, v := range s.Vulnerabilities {
			if i > 0 {
				cves += ", "
			}
			cves += v.CVE
		}
		if _, err := fmt.Fprintf(w, "| %s | %s | %.1f | %.1f | %.1f | %.1f | %.1f | %s |\n",
			s.Database, s.Grade, s.Overall, s.FeatureScore, s.ComplianceScore, s.RiskScore, s.MaturityScore, cves); err != nil {
			return err
		}
	}
	return nil
}

// WriteCostMarkdown renders a monthly cost projection from the measured
// storage footprint plus the per-database operations baseline.
func WriteCostMarkdown(w io.Writer, results []ScoredResult) error {
	if _, err := fmt.Fprintln(w, "## Cost Projection (monthly)"); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Database | Storage | Storage cost | Operations | Total |")
	fmt.Fprintln(w, "|----------|---------|--------------|------------|-------|")
	for _, r := range results {
		storageCost := float64(r.Metrics.StorageBytes) / (1 << 30) * storageDollarsPerGiB
		ops := operationalCosts[r.Database]
		if _, err := fmt.Fprintf(w, "| %s | %s | $%.2f | $%.2f | $%.2f |\n",
			r.Database, formatBytes(r.Metrics.StorageBytes), storageCost, ops, storageCost+ops); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GiB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MiB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KiB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
