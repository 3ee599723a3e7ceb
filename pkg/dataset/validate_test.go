package dataset

import (
	"testing"
	"time"
)

func goodReading(ts time.Time) Reading {
	return Reading{
		Timestamp:       ts,
		PatientID:       "PATIENT_00001",
		DeviceID:        "DEVICE_001",
		VitalType:       "heart_rate_bpm",
		Value:           72,
		AlertFlag:       0,
		Department:      "ICU",
		Confidence:      0.95,
		DataSensitivity: "PHI",
		IngestionBatch:  "BATCH_001",
	}
}

func TestValidatorPassesCleanData(t *testing.T) {
	v := NewValidator()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		v.Add(goodReading(start.Add(time.Duration(i) * time.Second)))
	}
	if !v.AllPassed() {
		t.Errorf("clean data failed checks: %+v", v.Results())
	}
}

func TestValidatorFlagsProblems(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		desc      string
		mutate    func(*Reading)
		checkName string
	}{
		{"empty department", func(r *Reading) { r.Department = "" }, "No empty fields"},
		{"bad patient id", func(r *Reading) { r.PatientID = "PATIENT_1" }, "Patient ids match PATIENT_ddddd"},
		{"non-binary alert", func(r *Reading) { r.AlertFlag = 2 }, "Alert flags are binary (0 or 1)"},
		{"value out of range", func(r *Reading) { r.Value = 500 }, "Values within vital ranges"},
		{"unknown vital", func(r *Reading) { r.VitalType = "mystery" }, "Values within vital ranges"},
	}

	for _, c := range cases {
		v := NewValidator()
		r := goodReading(start)
		c.mutate(&r)
		v.Add(r)

		failed := ""
		for _, check := range v.Results() {
			if !check.Passed {
				failed = check.Name
			}
		}
		if failed != c.checkName {
			t.Errorf("%s: failing check = %q, want %q", c.desc, failed, c.checkName)
		}
	}
}

func TestValidatorFlagsOutOfOrderTimestamps(t *testing.T) {
	v := NewValidator()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v.Add(goodReading(start.Add(time.Minute)))
	v.Add(goodReading(start))

	for _, check := range v.Results() {
		if check.Name == "Timestamps are non-decreasing" && check.Passed {
			t.Error("out-of-order timestamps not flagged")
		}
	}
}

func TestValidatorAllowsEqualTimestamps(t *testing.T) {
	v := NewValidator()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v.Add(goodReading(ts))
	v.Add(goodReading(ts))
	if !v.AllPassed() {
		t.Error("equal timestamps should pass the ordering check")
	}
}
