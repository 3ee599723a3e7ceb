package health

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vitalbench/vitalbench/pkg/data"
)

var (
	tagPatientID       = []byte("patient_id")
	tagDeviceID        = []byte("device_id")
	tagVitalType       = []byte("vital_type")
	tagDepartment      = []byte("department")
	tagDataSensitivity = []byte("data_sensitivity")
	tagIngestionBatch  = []byte("ingestion_batch")

	fieldVitalValue = []byte("vital_value")
	fieldIsAlert    = []byte("is_alert")
	fieldConfidence = []byte("confidence")

	dataSensitivity = []byte("PHI")
)

const rowsPerIngestionBatch = 1000

type SimulatorConfig struct {
	Start        time.Time
	PatientCount uint64
	DeviceCount  uint64
}

// NewSimulator prepares a reading stream: one reading every interval, limit
// readings in total. Each reading picks a random patient, device and vital
// channel, matching how ward telemetry multiplexes onto a collector.
func (c *SimulatorConfig) NewSimulator(interval time.Duration, limit uint64) *Simulator {
	patients := make([]Patient, c.PatientCount)
	for i := range patients {
		patients[i] = NewPatient(i)
	}
	devices := make([][]byte, c.DeviceCount)
	for i := range devices {
		devices[i] = NewDeviceID(i)
	}
	channels := make([]*vitalChannel, len(VitalKinds))
	for i, kind := range VitalKinds {
		channels[i] = newVitalChannel(kind)
	}

	return &Simulator{
		maxPoints:      limit,
		patients:       patients,
		devices:        devices,
		channels:       channels,
		confidence:     data.UD(0.90, 0.99),
		timestampStart: c.Start,
		interval:       interval,
	}
}

type Simulator struct {
	madePoints uint64
	maxPoints  uint64

	patients []Patient
	devices  [][]byte
	channels []*vitalChannel

	confidence data.Distribution

	timestampStart time.Time
	interval       time.Duration
}

func (s *Simulator) Finished() bool {
	return s.madePoints >= s.maxPoints
}

func (s *Simulator) Next(p *data.Point) bool {
	if s.Finished() {
		return false
	}

	patient := s.patients[rand.Intn(len(s.patients))]
	device := s.devices[rand.Intn(len(s.devices))]
	channel := s.channels[rand.Intn(len(s.channels))]

	ts := s.timestampStart.Add(time.Duration(s.madePoints) * s.interval)
	value := channel.next(ts.Hour())

	alert := int64(0)
	if IsAlert(channel.kind.Name, value) {
		alert = 1
	}

	s.confidence.Advance()
	confidence := roundTo(s.confidence.Get(), 2)

	batch := fmt.Sprintf("BATCH_%03d", s.madePoints/rowsPerIngestionBatch+1)

	p.SetMeasurementName(MeasurementName)
	p.SetTimestamp(&ts)

	p.AppendTag(tagPatientID, patient.ID)
	p.AppendTag(tagDeviceID, device)
	p.AppendTag(tagVitalType, []byte(channel.kind.Name))
	p.AppendTag(tagDepartment, patient.Department)
	p.AppendTag(tagDataSensitivity, dataSensitivity)
	p.AppendTag(tagIngestionBatch, []byte(batch))

	p.AppendField(fieldVitalValue, value)
	p.AppendField(fieldIsAlert, alert)
	p.AppendField(fieldConfidence, confidence)

	s.madePoints++
	return true
}

func (s *Simulator) TagKeys() []string {
	return []string{
		string(tagPatientID),
		string(tagDeviceID),
		string(tagVitalType),
		string(tagDepartment),
		string(tagDataSensitivity),
		string(tagIngestionBatch),
	}
}

func (s *Simulator) TagTypes() []string {
	types := make([]string, len(s.TagKeys()))
	for i := range types {
		types[i] = "string"
	}
	return types
}

func (s *Simulator) Fields() map[string][]string {
	return map[string][]string{
		string(MeasurementName): {
			string(fieldVitalValue),
			string(fieldIsAlert),
			string(fieldConfidence),
		},
	}
}

func (s *Simulator) Headers() *data.GeneratedDataHeaders {
	return &data.GeneratedDataHeaders{
		TagTypes:  s.TagTypes(),
		TagKeys:   s.TagKeys(),
		FieldKeys: s.Fields(),
	}
}
