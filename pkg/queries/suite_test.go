package queries

import (
	"strings"
	"testing"

	"github.com/vitalbench/vitalbench/pkg/query"
)

func testConfig(t *testing.T) *SuiteConfig {
	t.Helper()
	cfg := &SuiteConfig{
		TimestampStart: "2025-01-01T00:00:00Z",
		TimestampEnd:   "2025-01-02T00:00:00Z",
		PatientID:      "PATIENT_00042",
		VitalType:      "heart_rate_bpm",
		Department:     "ICU",
		AlertThreshold: 100,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

var wantLabels = []string{
	LabelSimpleRange,
	LabelFilterByPatient,
	LabelFilterByVitalType,
	LabelMeanAggregation,
	LabelMaxByDepartment,
	LabelAlertCountByType,
	LabelComplexFilter,
	LabelDownsample,
	LabelGroupByPatient,
	LabelJoinSimulation,
	LabelLargeTimeRange,
	LabelHighCardinality,
}

func labelsOf(suite []query.Query) []string {
	labels := make([]string, len(suite))
	for i, q := range suite {
		labels[i] = string(q.HumanLabelName())
	}
	return labels
}

func TestFluxSuiteLabelsAndOrder(t *testing.T) {
	suite := FluxSuite("health_iot_metrics", testConfig(t))
	got := labelsOf(suite)
	if len(got) != len(wantLabels) {
		t.Fatalf("suite has %d queries, want %d", len(got), len(wantLabels))
	}
	for i := range wantLabels {
		if got[i] != wantLabels[i] {
			t.Errorf("query %d label = %s, want %s", i, got[i], wantLabels[i])
		}
	}
}

func TestFluxSuiteQueryContents(t *testing.T) {
	cfg := testConfig(t)
	suite := FluxSuite("health_iot_metrics", cfg)

	byLabel := map[string]string{}
	for _, q := range suite {
		byLabel[string(q.HumanLabelName())] = string(q.(*query.Flux).RawQuery)
	}

	cases := []struct {
		label    string
		contains []string
	}{
		{LabelSimpleRange, []string{`from(bucket: "health_iot_metrics")`, "range(start: 2025-01-01T23:00:00Z, stop: 2025-01-02T00:00:00Z)", `r._measurement == "patient_vitals"`}},
		{LabelFilterByPatient, []string{`r.patient_id == "PATIENT_00042"`}},
		{LabelFilterByVitalType, []string{`r.vital_type == "heart_rate_bpm"`}},
		{LabelMeanAggregation, []string{"aggregateWindow(every: 1h, fn: mean"}},
		{LabelMaxByDepartment, []string{`group(columns: ["patient_department"])`, "max()"}},
		{LabelAlertCountByType, []string{`r._field == "is_alert"`, "r._value == true", "count()"}},
		{LabelComplexFilter, []string{`r.patient_department == "ICU"`, "r._value > 100"}},
		{LabelDownsample, []string{"aggregateWindow(every: 5m, fn: mean"}},
		{LabelGroupByPatient, []string{`group(columns: ["patient_id", "vital_type"])`, "mean()", `sort(columns: ["_value"], desc: true)`}},
		{LabelJoinSimulation, []string{`join(tables: {alerts: alerts, vitals: vitals}, on: ["patient_id", "_time"])`, `yield(name: "joined_data")`}},
		{LabelLargeTimeRange, []string{"range(start: 2024-12-03T00:00:00Z, stop: 2025-01-02T00:00:00Z)", "aggregateWindow(every: 6h, fn: mean", "limit(n: 1000)"}},
		{LabelHighCardinality, []string{`group(columns: ["patient_id", "vital_type", "device_id"])`, "count()"}},
	}
	for _, c := range cases {
		flux, ok := byLabel[c.label]
		if !ok {
			t.Errorf("%s missing from suite", c.label)
			continue
		}
		for _, want := range c.contains {
			if !strings.Contains(flux, want) {
				t.Errorf("%s query missing %q:\n%s", c.label, want, flux)
			}
		}
	}
}

func TestSQLSuiteMirrorsFluxSuite(t *testing.T) {
	cfg := testConfig(t)
	suite := SQLSuite(cfg)
	got := labelsOf(suite)
	if len(got) != len(wantLabels) {
		t.Fatalf("suite has %d queries, want %d", len(got), len(wantLabels))
	}
	for i := range wantLabels {
		if got[i] != wantLabels[i] {
			t.Errorf("query %d label = %s, want %s", i, got[i], wantLabels[i])
		}
	}
}

func TestSQLSuiteQueryContents(t *testing.T) {
	cfg := testConfig(t)
	suite := SQLSuite(cfg)

	byLabel := map[string]string{}
	for _, q := range suite {
		byLabel[string(q.HumanLabelName())] = string(q.(*query.SQL).SqlQuery)
	}

	cases := []struct {
		label    string
		contains []string
	}{
		{LabelSimpleRange, []string{"FROM patient_vitals", "time >= '2025-01-01 23:00:00 +0000'"}},
		{LabelFilterByPatient, []string{"patient_id = 'PATIENT_00042'"}},
		{LabelMeanAggregation, []string{"date_trunc('hour', time)", "avg(vital_value)", "GROUP BY bucket"}},
		{LabelMaxByDepartment, []string{"max(vital_value)", "GROUP BY department"}},
		{LabelAlertCountByType, []string{"is_alert = 1", "GROUP BY vital_type"}},
		{LabelComplexFilter, []string{"department = 'ICU'", "vital_value > 100"}},
		{LabelGroupByPatient, []string{"GROUP BY patient_id, vital_type", "ORDER BY mean_value DESC"}},
		{LabelJoinSimulation, []string{"JOIN patient_vitals v", "a.is_alert = 1"}},
		{LabelLargeTimeRange, []string{"time >= '2024-12-03 00:00:00 +0000'", "interval '6 hour'", "LIMIT 1000"}},
		{LabelHighCardinality, []string{"GROUP BY patient_id, vital_type, device_id"}},
	}
	for _, c := range cases {
		sql, ok := byLabel[c.label]
		if !ok {
			t.Errorf("%s missing from suite", c.label)
			continue
		}
		for _, want := range c.contains {
			if !strings.Contains(sql, want) {
				t.Errorf("%s query missing %q:\n%s", c.label, want, sql)
			}
		}
	}
}

func TestSuiteConfigValidateRejectsBadRange(t *testing.T) {
	cfg := &SuiteConfig{TimestampStart: "2025-01-02T00:00:00Z", TimestampEnd: "2025-01-01T00:00:00Z"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted range")
	}
	cfg = &SuiteConfig{TimestampStart: "bogus", TimestampEnd: "2025-01-01T00:00:00Z"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed start")
	}
}
