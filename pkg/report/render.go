package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteArtifacts renders every report artifact of one scored run into dir:
// the performance CSV, the Markdown report and the HTML dashboard. It
// returns the written file paths.
func WriteArtifacts(dir, runID string, results []ScoredResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "cannot create report dir %s", dir)
	}

	var written []string

	csvPath := filepath.Join(dir, fmt.Sprintf("performance_comparison_%s.csv", runID))
	if err := writeFile(csvPath, func(f *os.File) error {
		return WritePerformanceCSV(f, results)
	}); err != nil {
		return written, err
	}
	written = append(written, csvPath)

	mdPath := filepath.Join(dir, fmt.Sprintf("benchmark_report_%s.md", runID))
	if err := writeFile(mdPath, func(f *os.File) error {
		if _, err := fmt.Fprintf(f, "# Health IoT Database Benchmark, run %s\n\n", runID); err != nil {
			return err
		}
		if err := WriteRankingMarkdown(f, results); err != nil {
			return err
		}
		fmt.Fprintln(f)
		if err := WritePerformanceMarkdown(f, results); err != nil {
			return err
		}
		fmt.Fprintln(f)
		if err := WriteSecurityMarkdown(f, results); err != nil {
			return err
		}
		fmt.Fprintln(f)
		return WriteCostMarkdown(f, results)
	}); err != nil {
		return written, err
	}
	written = append(written, mdPath)

	htmlPath := filepath.Join(dir, fmt.Sprintf("performance_dashboard_%s.html", runID))
	if err := writeFile(htmlPath, func(f *os.File) error {
		return WriteDashboard(f, runID, results)
	}); err != nil {
		return written, err
	}
	written = append(written, htmlPath)

	return written, nil
}

func writeFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", path)
	}
	defer f.Close()
	return render(f)
}
