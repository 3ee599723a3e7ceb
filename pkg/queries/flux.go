package queries

import (
	"fmt"
	"time"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/pkg/health"
	"github.com/vitalbench/vitalbench/pkg/query"
)

// FluxSuite builds the canned suite as Flux queries against the given
// bucket.
func FluxSuite(bucket string, cfg *SuiteConfig) []query.Query {
	b := fluxBuilder{bucket: bucket, cfg: cfg}
	return []query.Query{
		b.simpleRange(),
		b.filterByPatient(),
		b.filterByVitalType(),
		b.meanAggregation(),
		b.maxByDepartment(),
		b.alertCountByType(),
		b.complexFilter(),
		b.downsample(),
		b.groupByPatient(),
		b.joinSimulation(),
		b.largeTimeRange(),
		b.highCardinality(),
	}
}

type fluxBuilder struct {
	bucket string
	cfg    *SuiteConfig
}

func (b *fluxBuilder) newQuery(label, description, flux string) query.Query {
	q := query.NewFlux()
	q.HumanLabel = append(q.HumanLabel, label...)
	q.HumanDescription = append(q.HumanDescription, description...)
	q.RawQuery = append(q.RawQuery, flux...)
	return q
}

func (b *fluxBuilder) rangeClause(interval *utils.TimeInterval) string {
	return b.rangeClauseBetween(interval.Start(), interval.End())
}

func (b *fluxBuilder) rangeClauseBetween(start, stop time.Time) string {
	return fmt.Sprintf(`from(bucket: "%s")
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == "%s")`,
		b.bucket,
		start.Format(time.RFC3339),
		stop.Format(time.RFC3339),
		health.MeasurementName)
}

func (b *fluxBuilder) simpleRange() query.Query {
	flux := b.rangeClause(b.cfg.LastHour()) + `
  |> filter(fn: (r) => r._field == "vital_value")`
	return b.newQuery(LabelSimpleRange, "all vitals in the trailing hour", flux)
}

func (b *fluxBuilder) filterByPatient() query.Query {
	flux := b.rangeClause(b.cfg.Interval()) + fmt.Sprintf(`
  |> filter(fn: (r) => r.patient_id == "%s")
  |> filter(fn: (r) => r._field == "vital_value")`, b.cfg.PatientID)
	return b.newQuery(LabelFilterByPatient, fmt.Sprintf("all vitals of %s", b.cfg.PatientID), flux)
}

func (b *fluxBuilder) filterByVitalType() query.Query {
	flux := b.rangeClause(b.cfg.Interval()) + fmt.Sprintf(`
  |> filter(fn: (r) => r.vital_type == "%s")
  |> filter(fn: (r) => r._field == "vital_value")`, b.cfg.VitalType)
	return b.newQuery(LabelFilterByVitalType, fmt.Sprintf("all %s readings", b.cfg.VitalType), flux)
}

func (b *fluxBuilder) meanAggregation() query.Query {
	flux := b.rangeClause(b.cfg.Interval()) + fmt.Sprintf(`
  |> filter(fn: (r) => r.vital_type == "%s")
  |> filter(fn: (r) => r._field == "vital_value")
  |> aggregateWindow(every: 1h, fn: mean, createEmpty: false)`, b.cfg.VitalType)
	return b.newQuery(LabelMeanAggregation, fmt.Sprintf("hourly mean of %s", b.cfg.VitalType), flux)
}

func (b *fluxBuilder) maxByDepartment() query.Query {
	flux := b.rangeClause(b.cfg.Interval()) + fmt.Sprintf(`
  |> filter(fn: (r) => r.vital_type == "%s")
  |> filter(fn: (r) => r._field == "vital_value")
  |> group(columns: ["patient_department"])
  |> max()`, b.cfg.VitalType)
	return b.newQuery(LabelMaxByDepartment, fmt.Sprintf("max %s per department", b.cfg.VitalType), flux)
}

func (b *fluxBuilder) alertCountByType() query.Query {
	flux := b.rangeClause(b.cfg.Interval()) + `
  |> filter(fn: (r) => r._field == "is_alert")
  |> filter(fn: (r) => r._value == true)
  |> group(columns: ["vital_type"])
  |> count()`
	return b.newQuery(LabelAlertCountByType, "alert counts per vital type", flux)
}

func (b *fluxBuilder) complexFilter() query.Query {
	flux := b.rangeClause(b.cfg.Interval()) + fmt.Sprintf(`
  |> filter(fn: (r) => r.patient_department == "%s")
  |> filter(fn: (r) => r.vital_type == "%s")
  |> filter(fn: (r) => r._field == "vital_value")
  |> filter(fn: (r) => r._value > %v)`, b.cfg.Department, b.cfg.VitalType, b.cfg.AlertThreshold)
	return b.newQuery(LabelComplexFilter,
		fmt.Sprintf("%s readings above %v in %s", b.cfg.VitalType, b.cfg.AlertThreshold, b.cfg.Department), flux)
}

func (b *fluxBuilder) downsample() query.Query {
	flux := b.rangeClause(b.cfg.Interval()) + fmt.Sprintf(`
  |> filter(fn: (r) => r.vital_type == "%s")
  |> filter(fn: (r) => r._field == "vital_value")
  |> aggregateWindow(every: 5m, fn: mean, createEmpty: false)`, b.cfg.VitalType)
	return b.newQuery(LabelDownsample, fmt.Sprintf("5m downsample of %s", b.cfg.VitalType), flux)
}

func (b *fluxBuilder) groupByPatient() query.Query {
	flux := b.rangeClause(b.cfg.Interval()) + `
  |> filter(fn: (r) => r._field == "vital_value")
  |> group(columns: ["patient_id", "vital_type"])
  |> mean()
  |> sort(columns: ["_value"], desc: true)`
	return b.newQuery(LabelGroupByPatient, "per-patient mean of every vital, highest first", flux)
}

func (b *fluxBuilder) joinSimulation() query.Query {
	interval := b.cfg.LastHour()
	flux := fmt.Sprintf(`alerts = %s
  |> filter(fn: (r) => r._field == "is_alert")
  |> filter(fn: (r) => r._value == true)

vitals = %s
  |> filter(fn: (r) => r._field == "vital_value")

join(tables: {alerts: alerts, vitals: vitals}, on: ["patient_id", "_time"])
  |> yield(name: "joined_data")`,
		b.rangeClause(interval), b.rangeClause(interval))
	return b.newQuery(LabelJoinSimulation, "alerts joined back to the vitals that raised them", flux)
}

func (b *fluxBuilder) largeTimeRange() query.Query {
	flux := b.rangeClauseBetween(b.cfg.LargeRangeStart(), b.cfg.Interval().End()) + `
  |> filter(fn: (r) => r._field == "vital_value")
  |> aggregateWindow(every: 6h, fn: mean, createEmpty: false)
  |> limit(n: 1000)`
	return b.newQuery(LabelLargeTimeRange, "6h means over a 30 day scan", flux)
}

func (b *fluxBuilder) highCardinality() query.Query {
	flux := b.rangeClause(b.cfg.LastHour()) + `
  |> filter(fn: (r) => r._field == "vital_value")
  |> group(columns: ["patient_id", "vital_type", "device_id"])
  |> count()`
	return b.newQuery(LabelHighCardinality, "counts grouped by patient, vital and device", flux)
}
