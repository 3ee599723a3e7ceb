package report

import (
	"fmt"
	"html/template"
	"strings"
)

// databaseColors keep each database visually consistent across charts.
var databaseColors = map[string]string{
	DatabasePostgreSQL: "#336791",
	DatabaseInfluxDB:   "#22adf6",
	DatabaseMongoDB:    "#4db33d",
}

type Bar struct {
	Label string
	Value float64
	Color string
}

type BarChart struct {
	Title string
	Unit  string
	Bars  []Bar
}

const (
	chartWidth   = 520
	chartHeight  = 40
	chartPadding = 160
)

// SVG renders the chart as an inline SVG horizontal bar chart, one bar per
// database.
func (c *BarChart) SVG() template.HTML {
	var sb strings.Builder

	height := len(c.Bars)*chartHeight + 40
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="sans-serif" font-size="13">`,
		chartWidth+chartPadding+100, height)
	fmt.Fprintf(&sb, `<text x="0" y="16" font-weight="bold">%s</text>`, template.HTMLEscapeString(c.Title))

	max := 0.0
	for _, b := range c.Bars {
		if b.Value > max {
			max = b.Value
		}
	}

	for i, b := range c.Bars {
		y := 30 + i*chartHeight
		width := 0.0
		if max > 0 {
			width = b.Value / max * chartWidth
		}
		color := b.Color
		if color == "" {
			color = "#888888"
		}
		fmt.Fprintf(&sb, `<text x="0" y="%d">%s</text>`, y+18, template.HTMLEscapeString(b.Label))
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%.1f" height="%d" fill="%s"/>`,
			chartPadding, y, width, chartHeight-12, color)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%d">%.1f%s</text>`,
			float64(chartPadding)+width+6, y+18, b.Value, c.Unit)
	}
	sb.WriteString("</svg>")
	return template.HTML(sb.String())
}

// PerformanceCharts builds the dashboard chart set from the scored results.
func PerformanceCharts(results []ScoredResult) []*BarChart {
	overall := &BarChart{Title: "Overall score (weighted, 0-100)"}
	ingestion := &BarChart{Title: "Ingestion rate", Unit: " rows/s"}
	latency := &BarChart{Title: "Query median latency", Unit: " ms"}
	storage := &BarChart{Title: "Storage footprint", Unit: " MiB"}
	security := &BarChart{Title: "Security score (0-100)"}

	for _, r := range results {
		color := databaseColors[r.Database]
		overall.Bars = append(overall.Bars, Bar{Label: r.Database, Value: r.Overall, Color: color})
		ingestion.Bars = append(ingestion.Bars, Bar{Label: r.Database, Value: r.Metrics.IngestionRate, Color: color})
		latency.Bars = append(latency.Bars, Bar{Label: r.Database, Value: r.Metrics.QueryLatencyMs, Color: color})
		storage.Bars = append(storage.Bars, Bar{Label: r.Database, Value: float64(r.Metrics.StorageBytes) / (1 << 20), Color: color})
		security.Bars = append(security.Bars, Bar{Label: r.Database, Value: r.SecurityScore, Color: color})
	}
	return []*BarChart{overall, ingestion, latency, storage, security}
}
