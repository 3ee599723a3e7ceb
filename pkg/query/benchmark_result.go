package query

const BenchmarkTestResultVersion = "0.1"

// LoaderTestResult aggregates the results of a query benchmark in a JSON
// document that the report collector understands.
type LoaderTestResult struct {
	ResultFormatVersion string `json:"ResultFormatVersion"`

	RunnerConfig BenchmarkRunnerConfig `json:"RunnerConfig"`

	StartTime      int64 `json:"StartTime"`
	EndTime        int64 `json:"EndTime"`
	DurationMillis int64 `json:"DurationMillis"`

	Totals map[string]interface{} `json:"Totals"`
}
