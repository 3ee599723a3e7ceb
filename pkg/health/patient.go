package health

import (
	"fmt"
	"math/rand"

	"github.com/vitalbench/vitalbench/pkg/data"
)

// Patient is one monitored admission: a stable id and department for the
// lifetime of the dataset.
type Patient struct {
	ID         []byte
	Department []byte
}

func NewPatient(i int) Patient {
	return Patient{
		ID:         []byte(fmt.Sprintf("PATIENT_%05d", i+1)),
		Department: []byte(Departments[rand.Intn(len(Departments))]),
	}
}

func NewDeviceID(i int) []byte {
	return []byte(fmt.Sprintf("DEVICE_%03d", i+1))
}

// vitalChannel produces readings for one vital kind. The noise distribution
// is uniform around the typical value, scaled to 20% of typical; heart rate
// instead follows the circadian offset for the hour of day with an
// hour-banded jitter width.
type vitalChannel struct {
	kind  VitalKind
	noise data.Distribution
}

func newVitalChannel(kind VitalKind) *vitalChannel {
	if kind.Name == "heart_rate_bpm" {
		// Unit noise, scaled to the hour's jitter band in next().
		return &vitalChannel{kind: kind, noise: data.UD(-1, 1)}
	}
	noise := data.UD(-0.2*kind.Typical, 0.2*kind.Typical)
	return &vitalChannel{kind: kind, noise: data.FP(noise, kind.Precision)}
}

func (c *vitalChannel) next(hour int) float64 {
	c.noise.Advance()
	base := c.kind.Typical
	noise := c.noise.Get()
	if c.kind.Name == "heart_rate_bpm" {
		base += HeartRateOffset(hour)
		noise *= HeartRateJitter(hour)
	}
	v := clamp(base+noise, c.kind.Min, c.kind.Max)
	return roundTo(v, c.kind.Precision)
}

func roundTo(v float64, precision int) float64 {
	scale := 1.0
	for i := 0; i < precision; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}
