package influx

import (
	"strings"
	"testing"
	"time"

	"github.com/vitalbench/vitalbench/pkg/dataset"
)

func TestAppendReading(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 30, 0, time.UTC)
	r := &dataset.Reading{
		Timestamp:       ts,
		PatientID:       "PATIENT_00042",
		DeviceID:        "DEVICE_007",
		VitalType:       "heart_rate_bpm",
		Value:           72.5,
		AlertFlag:       0,
		Department:      "ICU",
		Confidence:      0.95,
		DataSensitivity: "PHI",
	}

	got := string(AppendReading(nil, r))
	want := "patient_vitals," +
		"patient_id=PATIENT_00042," +
		"vital_type=heart_rate_bpm," +
		"patient_department=ICU," +
		"device_id=DEVICE_007," +
		"data_classification=PHI " +
		"vital_value=72.5,is_alert=false,confidence=0.95 " +
		"1735689630000000000\n"
	if got != want {
		t.Errorf("line protocol mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestAppendReadingAlertFlag(t *testing.T) {
	r := &dataset.Reading{
		Timestamp: time.Unix(0, 0).UTC(),
		AlertFlag: 1,
	}
	got := string(AppendReading(nil, r))
	if !strings.Contains(got, "is_alert=true") {
		t.Errorf("alert flag not mapped to boolean: %q", got)
	}
}

func TestAppendReadingGrows(t *testing.T) {
	r := &dataset.Reading{Timestamp: time.Unix(1, 0).UTC()}
	buf := []byte("existing")
	got := AppendReading(buf, r)
	if string(got[:8]) != "existing" {
		t.Error("existing buffer content clobbered")
	}
}
