package health

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/vitalbench/vitalbench/pkg/data"
)

var batchPattern = regexp.MustCompile(`^BATCH_\d{3}$`)

func testSimulator(limit uint64, interval time.Duration) *Simulator {
	cfg := &SimulatorConfig{
		Start:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PatientCount: 10,
		DeviceCount:  3,
	}
	return cfg.NewSimulator(interval, limit)
}

func TestSimulatorProducesLimitPoints(t *testing.T) {
	rand.Seed(42)
	sim := testSimulator(25, time.Second)

	count := 0
	p := data.NewPoint()
	for !sim.Finished() {
		if !sim.Next(p) {
			break
		}
		count++
		p.Reset()
	}
	if count != 25 {
		t.Errorf("simulator produced %d points, want 25", count)
	}
	if sim.Next(p) {
		t.Error("Next returned true after the limit")
	}
}

func TestSimulatorPointShape(t *testing.T) {
	rand.Seed(42)
	sim := testSimulator(1, time.Second)

	p := data.NewPoint()
	if !sim.Next(p) {
		t.Fatal("no point produced")
	}

	if string(p.MeasurementName()) != "patient_vitals" {
		t.Errorf("measurement = %s, want patient_vitals", p.MeasurementName())
	}
	if len(p.TagKeys()) != 6 {
		t.Errorf("got %d tags, want 6", len(p.TagKeys()))
	}
	if len(p.FieldKeys()) != 3 {
		t.Errorf("got %d fields, want 3", len(p.FieldKeys()))
	}

	patientID := p.GetTagValue([]byte("patient_id")).([]byte)
	if matched := regexp.MustCompile(`^PATIENT_\d{5}$`).Match(patientID); !matched {
		t.Errorf("patient_id %s does not match PATIENT_ddddd", patientID)
	}
	deviceID := p.GetTagValue([]byte("device_id")).([]byte)
	if matched := regexp.MustCompile(`^DEVICE_\d{3}$`).Match(deviceID); !matched {
		t.Errorf("device_id %s does not match DEVICE_ddd", deviceID)
	}
	if got := string(p.GetTagValue([]byte("data_sensitivity")).([]byte)); got != "PHI" {
		t.Errorf("data_sensitivity = %s, want PHI", got)
	}
	if batch := string(p.GetTagValue([]byte("ingestion_batch")).([]byte)); !batchPattern.MatchString(batch) {
		t.Errorf("ingestion_batch %s does not match BATCH_ddd", batch)
	}

	vital := string(p.GetTagValue([]byte("vital_type")).([]byte))
	kind, ok := VitalKindByName(vital)
	if !ok {
		t.Fatalf("unknown vital type %s", vital)
	}
	value := p.GetFieldValue([]byte("vital_value")).(float64)
	if value < kind.Min || value > kind.Max {
		t.Errorf("%s value %v outside [%v, %v]", vital, value, kind.Min, kind.Max)
	}

	alert := p.GetFieldValue([]byte("is_alert")).(int64)
	if alert != 0 && alert != 1 {
		t.Errorf("is_alert = %d, want 0 or 1", alert)
	}
	confidence := p.GetFieldValue([]byte("confidence")).(float64)
	if confidence < 0.90 || confidence > 0.99 {
		t.Errorf("confidence %v outside [0.90, 0.99]", confidence)
	}
}

func TestSimulatorTimestampsAdvanceByInterval(t *testing.T) {
	rand.Seed(42)
	interval := 2 * time.Second
	sim := testSimulator(5, interval)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		p := data.NewPoint()
		if !sim.Next(p) {
			t.Fatalf("point %d missing", i)
		}
		want := start.Add(time.Duration(i) * interval)
		if !p.Timestamp().Equal(want) {
			t.Errorf("point %d timestamp = %v, want %v", i, p.Timestamp(), want)
		}
	}
}

func TestSimulatorBatchRollsEveryThousandRows(t *testing.T) {
	rand.Seed(42)
	sim := testSimulator(1001, time.Second)

	var lastBatch string
	p := data.NewPoint()
	for i := 0; i < 1001; i++ {
		if !sim.Next(p) {
			t.Fatalf("point %d missing", i)
		}
		lastBatch = string(p.GetTagValue([]byte("ingestion_batch")).([]byte))
		if i == 0 && lastBatch != "BATCH_001" {
			t.Errorf("first batch = %s, want BATCH_001", lastBatch)
		}
		p.Reset()
	}
	if lastBatch != "BATCH_002" {
		t.Errorf("batch after 1000 rows = %s, want BATCH_002", lastBatch)
	}
}

func TestSimulatorHeaders(t *testing.T) {
	sim := testSimulator(1, time.Second)
	headers := sim.Headers()
	if len(headers.TagKeys) != 6 || len(headers.TagTypes) != 6 {
		t.Errorf("got %d tag keys and %d tag types, want 6 of each", len(headers.TagKeys), len(headers.TagTypes))
	}
	fields := headers.FieldKeys["patient_vitals"]
	if len(fields) != 3 {
		t.Errorf("got %d fields, want 3", len(fields))
	}
}
