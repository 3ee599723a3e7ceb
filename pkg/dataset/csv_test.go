package dataset

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/andreyvit/diff"
	"github.com/google/go-cmp/cmp"

	"github.com/vitalbench/vitalbench/pkg/data"
)

func samplePoint() *data.Point {
	p := data.NewPoint()
	ts := time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC)
	p.SetMeasurementName([]byte("patient_vitals"))
	p.SetTimestamp(&ts)
	p.AppendTag([]byte("patient_id"), []byte("PATIENT_00007"))
	p.AppendTag([]byte("device_id"), []byte("DEVICE_002"))
	p.AppendTag([]byte("vital_type"), []byte("heart_rate_bpm"))
	p.AppendTag([]byte("department"), []byte("ICU"))
	p.AppendTag([]byte("data_sensitivity"), []byte("PHI"))
	p.AppendTag([]byte("ingestion_batch"), []byte("BATCH_001"))
	p.AppendField([]byte("vital_value"), 77.25)
	p.AppendField([]byte("is_alert"), int64(0))
	p.AppendField([]byte("confidence"), 0.95)
	return p
}

func TestSerializeOutput(t *testing.T) {
	var buf bytes.Buffer
	s := &Serializer{}
	if err := s.WriteHeader(&buf); err != nil {
		t.Fatal(err)
	}
	if err := s.Serialize(samplePoint(), &buf); err != nil {
		t.Fatal(err)
	}

	want := "timestamp,patient_id,device_id,vital_type,value,alert_flag,department,confidence,data_sensitivity,ingestion_batch\n" +
		"2025-01-01T08:30:00Z,PATIENT_00007,DEVICE_002,heart_rate_bpm,77.25,0,ICU,0.95,PHI,BATCH_001\n"
	if got := buf.String(); got != want {
		t.Errorf("serialized output does not match:\n%s", diff.LineDiff(want, got))
	}
}

func TestSerializeThenRead(t *testing.T) {
	var buf bytes.Buffer
	s := &Serializer{}
	if err := s.WriteHeader(&buf); err != nil {
		t.Fatal(err)
	}
	if err := s.Serialize(samplePoint(), &buf); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got, ok, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("no reading returned")
	}

	want := Reading{
		Timestamp:       time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC),
		PatientID:       "PATIENT_00007",
		DeviceID:        "DEVICE_002",
		VitalType:       "heart_rate_bpm",
		Value:           77.25,
		AlertFlag:       0,
		Department:      "ICU",
		Confidence:      0.95,
		DataSensitivity: "PHI",
		IngestionBatch:  "BATCH_001",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reading mismatch (-want +got):\n%s", diff)
	}

	if _, ok, err := r.Next(); ok || err != nil {
		t.Errorf("expected clean EOF, got ok=%v err=%v", ok, err)
	}
}

func TestReaderRejectsWrongHeader(t *testing.T) {
	in := strings.NewReader("time,value\n2025-01-01T00:00:00Z,1\n")
	if _, err := NewReader(in); err == nil {
		t.Error("expected error on unexpected header")
	}
}

func TestReaderRejectsEmptyInput(t *testing.T) {
	if _, err := NewReader(strings.NewReader("")); err == nil {
		t.Error("expected error on empty input")
	}
}

func TestParseRowErrors(t *testing.T) {
	cases := []struct {
		desc string
		row  string
	}{
		{"too few columns", "2025-01-01T00:00:00Z,PATIENT_00001,DEVICE_001"},
		{"bad timestamp", "yesterday,PATIENT_00001,DEVICE_001,heart_rate_bpm,72,0,ICU,0.95,PHI,BATCH_001"},
		{"bad value", "2025-01-01T00:00:00Z,PATIENT_00001,DEVICE_001,heart_rate_bpm,abc,0,ICU,0.95,PHI,BATCH_001"},
		{"bad alert flag", "2025-01-01T00:00:00Z,PATIENT_00001,DEVICE_001,heart_rate_bpm,72,x,ICU,0.95,PHI,BATCH_001"},
		{"bad confidence", "2025-01-01T00:00:00Z,PATIENT_00001,DEVICE_001,heart_rate_bpm,72,0,ICU,high,PHI,BATCH_001"},
	}
	for _, c := range cases {
		if _, err := ParseRow(c.row); err == nil {
			t.Errorf("%s: expected error", c.desc)
		}
	}
}
