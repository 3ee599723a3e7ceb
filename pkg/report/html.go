package report

import (
	"html/template"
	"io"
	"time"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Health IoT Database Benchmark - {{.RunID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.5em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 6px 12px; text-align: left; }
th { background: #f4f4f4; }
.winner { background: #eaf7ea; }
.chart { margin: 1.5em 0; }
.grade { font-weight: bold; }
footer { margin-top: 3em; color: #888; font-size: 0.85em; }
</style>
</head>
<body>
<h1>Health IoT Database Benchmark</h1>
<p>Run <code>{{.RunID}}</code>, generated {{.GeneratedAt}}.</p>

<h2>Ranking</h2>
<table>
<tr><th>Rank</th><th>Database</th><th>Overall</th><th>Ingestion</th><th>Query</th><th>Storage</th><th>Index</th><th>Security</th></tr>
{{range .Results}}
<tr{{if eq .Rank 1}} class="winner"{{end}}>
<td>{{.Rank}}</td><td>{{.Database}}</td>
<td>{{printf "%.1f" .Overall}}</td>
<td>{{printf "%.1f" .IngestionScore}}</td>
<td>{{printf "%.1f" .QueryScore}}</td>
<td>{{printf "%.1f" .StorageScore}}</td>
<td>{{printf "%.1f" .IndexScore}}</td>
<td>{{printf "%.1f" .SecurityScore}}</td>
</tr>
{{end}}
</table>

{{range .Charts}}
<div class="chart">{{.SVG}}</div>
{{end}}

<h2>Security Grades</h2>
<table>
<tr><th>Database</th><th>Grade</th><th>Compliance</th><th>Known CVEs</th></tr>
{{range .Results}}
<tr>
<td>{{.Database}}</td>
<td class="grade">{{.Security.Grade}}</td>
<td>{{range .Security.Compliance}}{{.Standard}}: {{if .Met}}met{{else}}not met{{end}}<br>{{end}}</td>
<td>{{range .Security.Vulnerabilities}}{{.CVE}} ({{.Severity}})<br>{{end}}</td>
</tr>
{{end}}
</table>

<footer>Scores are min-max normalized across the compared databases; lower
latency and smaller storage score higher.</footer>
</body>
</html>
`))

type dashboardData struct {
	RunID       string
	GeneratedAt string
	Results     []ScoredResult
	Charts      []*BarChart
}

// WriteDashboard renders the HTML dashboard for one scored run.
func WriteDashboard(w io.Writer, runID string, results []ScoredResult) error {
	return dashboardTemplate.Execute(w, dashboardData{
		RunID:       runID,
		GeneratedAt: time.Now().UTC().Format(time.RFC1123),
		Results:     results,
		Charts:      PerformanceCharts(results),
	})
}
