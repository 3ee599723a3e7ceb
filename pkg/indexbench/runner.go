package indexbench

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/pkg/health"
	"github.com/vitalbench/vitalbench/pkg/influx"
)

// indexedTags are the tags whose selectivity the analysis measures. The
// filter value for each is taken from the first distinct value found, so the
// analysis works on any generated dataset.
var indexedTags = []string{"patient_id", "device_id", "vital_type", "patient_department"}

type Runner struct {
	client     *influx.Client
	bucket     string
	interval   *utils.TimeInterval
	iterations int
}

func NewRunner(client *influx.Client, bucket string, interval *utils.TimeInterval, iterations int) *Runner {
	if iterations < 1 {
		iterations = 1
	}
	return &Runner{client: client, bucket: bucket, interval: interval, iterations: iterations}
}

// Run produces the full index analysis report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Bucket:      r.bucket,
		Measurement: string(health.MeasurementName),
	}

	for _, tag := range indexedTags {
		distinct, err := r.tagCardinality(ctx, tag)
		if err != nil {
			return nil, err
		}
		report.Cardinalities = append(report.Cardinalities, TagCardinality{
			Tag:      tag,
			Distinct: distinct,
			Category: Categorize(distinct),
		})
	}

	for _, tag := range indexedTags {
		pair, err := r.timePair(ctx, tag)
		if err != nil {
			return nil, err
		}
		report.Pairs = append(report.Pairs, *pair)
	}

	report.Plan = BuildPlan(report.Cardinalities, report.Pairs)
	return report, nil
}

// tagCardinality counts the distinct values of one tag inside the interval.
func (r *Runner) tagCardinality(ctx context.Context, tag string) (int64, error) {
	flux := fmt.Sprintf(`from(bucket: "%s")
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == "%s")
  |> filter(fn: (r) => r._field == "vital_value")
  |> keep(columns: ["%s"])
  |> group()
  |> distinct(column: "%s")
  |> count()`,
		r.bucket, r.start(), r.stop(), health.MeasurementName, tag, tag)

	result, err := r.client.QueryAPI().Query(ctx, flux)
	if err != nil {
		return 0, errors.Wrapf(err, "cardinality query for tag %q failed", tag)
	}
	defer result.Close()

	var total int64
	for result.Next() {
		if v, ok := result.Record().Value().(int64); ok {
			total += v
		}
	}
	return total, errors.Wrapf(result.Err(), "cardinality stream for tag %q", tag)
}

// firstTagValue fetches one existing value of a tag to use as the filter in
// the selectivity pair.
func (r *Runner) firstTagValue(ctx context.Context, tag string) (string, error) {
	flux := fmt.Sprintf(`from(bucket: "%s")
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == "%s")
  |> filter(fn: (r) => r._field == "vital_value")
  |> keep(columns: ["%s"])
  |> group()
  |> distinct(column: "%s")
  |> limit(n: 1)`,
		r.bucket, r.start(), r.stop(), health.MeasurementName, tag, tag)

	result, err := r.client.QueryAPI().Query(ctx, flux)
	if err != nil {
		return "", errors.Wrapf(err, "sample value query for tag %q failed", tag)
	}
	defer result.Close()

	for result.Next() {
		if v, ok := result.Record().Value().(string); ok {
			return v, nil
		}
	}
	if result.Err() != nil {
		return "", errors.Wrapf(result.Err(), "sample value stream for tag %q", tag)
	}
	return "", errors.Errorf("tag %q has no values in the benchmarked range", tag)
}

// timePair times a count over the full range against the same count
// restricted to a single value of the tag.
func (r *Runner) timePair(ctx context.Context, tag string) (*PairResult, error) {
	value, err := r.firstTagValue(ctx, tag)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf(`from(bucket: "%s")
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == "%s")
  |> filter(fn: (r) => r._field == "vital_value")`,
		r.bucket, r.start(), r.stop(), health.MeasurementName)

	unfiltered := base + "\n  |> group()\n  |> count()"
	filtered := base + fmt.Sprintf("\n  |> filter(fn: (r) => r.%s == \"%s\")\n  |> group()\n  |> count()", tag, value)

	unfilteredMs, err := r.timeQuery(ctx, unfiltered)
	if err != nil {
		return nil, errors.Wrapf(err, "unfiltered scan for tag %q", tag)
	}
	filteredMs, err := r.timeQuery(ctx, filtered)
	if err != nil {
		return nil, errors.Wrapf(err, "filtered scan for tag %q", tag)
	}

	factor := ImprovementFactor(unfilteredMs, filteredMs)
	return &PairResult{
		Name:              fmt.Sprintf("%s_selectivity", tag),
		Tag:               tag,
		UnfilteredMeanMs:  unfilteredMs,
		FilteredMeanMs:    filteredMs,
		ImprovementFactor: factor,
		Tier:              Tier(factor),
	}, nil
}

// timeQuery runs a Flux query the configured number of times and returns the
// mean latency in milliseconds. Results are drained so the timing covers the
// full response.
func (r *Runner) timeQuery(ctx context.Context, flux string) (float64, error) {
	var totalNs int64
	for i := 0; i < r.iterations; i++ {
		start := time.Now()
		result, err := r.client.QueryAPI().Query(ctx, flux)
		if err != nil {
			return 0, err
		}
		for result.Next() {
		}
		if result.Err() != nil {
			result.Close()
			return 0, result.Err()
		}
		result.Close()
		totalNs += time.Since(start).Nanoseconds()
	}
	return float64(totalNs) / float64(r.iterations) / 1e6, nil
}

func (r *Runner) start() string {
	return r.interval.Start().Format(time.RFC3339)
}

func (r *Runner) stop() string {
	return r.interval.End().Format(time.RFC3339)
}
