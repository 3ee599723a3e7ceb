package queries

import (
	"fmt"

	"github.com/vitalbench/vitalbench/internal/utils"
	"github.com/vitalbench/vitalbench/pkg/query"
)

const vitalsTable = "patient_vitals"

// SQLSuite builds the canned suite as SQL queries against the wide vitals
// table, mirroring the Flux suite query for query.
func SQLSuite(cfg *SuiteConfig) []query.Query {
	b := sqlBuilder{cfg: cfg}
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

type sqlBuilder struct {
	cfg *SuiteConfig
}

func (b *sqlBuilder) newQuery(label, description, sql string) query.Query {
	q := query.NewSQL()
	q.HumanLabel = append(q.HumanLabel, label...)
	q.HumanDescription = append(q.HumanDescription, description...)
	q.Table = append(q.Table, vitalsTable...)
	q.SqlQuery = append(q.SqlQuery, sql...)
	return q
}

func timePredicate(interval *utils.TimeInterval) string {
	return fmt.Sprintf("time >= '%s' AND time < '%s'",
		interval.Start().Format("2006-01-02 15:04:05.999999 -0700"),
		interval.End().Format("2006-01-02 15:04:05.999999 -0700"))
}

func (b *sqlBuilder) simpleRange() query.Query {
	sql := fmt.Sprintf("SELECT time, patient_id, vital_type, vital_value FROM %s WHERE %s",
		vitalsTable, timePredicate(b.cfg.LastHour()))
	return b.newQuery(LabelSimpleRange, "all vitals in the trailing hour", sql)
}

func (b *sqlBuilder) filterByPatient() query.Query {
	sql := fmt.Sprintf("SELECT time, vital_type, vital_value FROM %s WHERE patient_id = '%s' AND %s",
		vitalsTable, b.cfg.PatientID, timePredicate(b.cfg.Interval()))
	return b.newQuery(LabelFilterByPatient, fmt.Sprintf("all vitals of %s", b.cfg.PatientID), sql)
}

func (b *sqlBuilder) filterByVitalType() query.Query {
	sql := fmt.Sprintf("SELECT time, patient_id, vital_value FROM %s WHERE vital_type = '%s' AND %s",
		vitalsTable, b.cfg.VitalType, timePredicate(b.cfg.Interval()))
	return b.newQuery(LabelFilterByVitalType, fmt.Sprintf("all %s readings", b.cfg.VitalType), sql)
}

func (b *sqlBuilder) meanAggregation() query.Query {
	sql := fmt.Sprintf("SELECT date_trunc('hour', time) AS bucket, avg(vital_value) FROM %s WHERE vital_type = '%s' AND %s GROUP BY bucket ORDER BY bucket",
		vitalsTable, b.cfg.VitalType, timePredicate(b.cfg.Interval()))
	return b.newQuery(LabelMeanAggregation, fmt.Sprintf("hourly mean of %s", b.cfg.VitalType), sql)
}

func (b *sqlBuilder) maxByDepartment() query.Query {
	sql := fmt.Sprintf("SELECT department, max(vital_value) FROM %s WHERE vital_type = '%s' AND %s GROUP BY department",
		vitalsTable, b.cfg.VitalType, timePredicate(b.cfg.Interval()))
	return b.newQuery(LabelMaxByDepartment, fmt.Sprintf("max %s per department", b.cfg.VitalType), sql)
}

func (b *sqlBuilder) alertCountByType() query.Query {
	sql := fmt.Sprintf("SELECT vital_type, count(*) FROM %s WHERE is_alert = 1 AND %s GROUP BY vital_type",
		vitalsTable, timePredicate(b.cfg.Interval()))
	return b.newQuery(LabelAlertCountByType, "alert counts per vital type", sql)
}

func (b *sqlBuilder) complexFilter() query.Query {
	sql := fmt.Sprintf("SELECT time, patient_id, vital_value FROM %s WHERE department = '%s' AND vital_type = '%s' AND vital_value > %v AND %s",
		vitalsTable, b.cfg.Department, b.cfg.VitalType, b.cfg.AlertThreshold, timePredicate(b.cfg.Interval()))
	return b.newQuery(LabelComplexFilter,
		fmt.Sprintf("%s readings above %v in %s", b.cfg.VitalType, b.cfg.AlertThreshold, b.cfg.Department), sql)
}

func (b *sqlBuilder) downsample() query.Query {
	sql := fmt.Sprintf("SELECT date_trunc('minute', time) - (extract(minute from time)::int %% 5) * interval '1 minute' AS bucket, avg(vital_value) FROM %s WHERE vital_type = '%s' AND %s GROUP BY bucket ORDER BY bucket",
		vitalsTable, b.cfg.VitalType, timePredicate(b.cfg.Interval()))
	return b.newQuery(LabelDownsample, fmt.Sprintf("5m downsample of %s", b.cfg.VitalType), sql)
}

func (b *sqlBuilder) groupByPatient() query.Query {
	sql := fmt.Sprintf("SELECT patient_id, vital_type, avg(vital_value) AS mean_value FROM %s WHERE %s GROUP BY patient_id, vital_type ORDER BY mean_value DESC",
		vitalsTable, timePredicate(b.cfg.Interval()))
	return b.newQuery(LabelGroupByPatient, "per-patient mean of every vital, highest first", sql)
}

func (b *sqlBuilder) joinSimulation() query.Query {
	sql := fmt.Sprintf("SELECT a.time, a.patient_id, v.vital_type, v.vital_value FROM %s a JOIN %s v ON v.patient_id = a.patient_id AND v.time = a.time WHERE a.is_alert = 1 AND a.%s",
		vitalsTable, vitalsTable, timePredicate(b.cfg.LastHour()))
	return b.newQuery(LabelJoinSimulation, "alerts joined back to the vitals that raised them", sql)
}

func (b *sqlBuilder) largeTimeRange() query.Query {
	start := b.cfg.LargeRangeStart().Format("2006-01-02 15:04:05.999999 -0700")
	end := b.cfg.Interval().End().Format("2006-01-02 15:04:05.999999 -0700")
	sql := fmt.Sprintf("SELECT date_trunc('day', time) + (extract(hour from time)::int / 6) * interval '6 hour' AS bucket, avg(vital_value) FROM %s WHERE time >= '%s' AND time < '%s' GROUP BY bucket ORDER BY bucket LIMIT 1000",
		vitalsTable, start, end)
	return b.newQuery(LabelLargeTimeRange, "6h means over a 30 day scan", sql)
}

func (b *sqlBuilder) highCardinality() query.Query {
	sql := fmt.Sprintf("SELECT patient_id, vital_type, device_id, count(*) FROM %s WHERE %s GROUP BY patient_id, vital_type, device_id",
		vitalsTable, timePredicate(b.cfg.LastHour()))
	return b.newQuery(LabelHighCardinality, "counts grouped by patient, vital and device", sql)
}
