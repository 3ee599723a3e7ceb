// Package health synthesizes hospital-IoT vital-sign telemetry: a stream of
// monitor readings for a pool of patients, with per-vital physiological
// ranges and threshold-based alert flags.
package health

import (
	"math/rand"
)

var MeasurementName = []byte("patient_vitals")

var Departments = []string{"ICU", "WARD", "OUTPATIENT", "EMERGENCY", "CARDIOLOGY"}

// VitalKind describes one vital-sign channel: its physiological range, the
// typical resting value readings wander around, and the reported precision.
type VitalKind struct {
	Name      string
	Unit      string
	Min       float64
	Max       float64
	Typical   float64
	Precision int
}

var VitalKinds = []VitalKind{
	{Name: "heart_rate_bpm", Unit: "bpm", Min: 40, Max: 180, Typical: 72, Precision: 2},
	{Name: "blood_pressure_sys_mmhg", Unit: "mmHg", Min: 80, Max: 200, Typical: 120, Precision: 2},
	{Name: "blood_pressure_dia_mmhg", Unit: "mmHg", Min: 50, Max: 120, Typical: 80, Precision: 2},
	{Name: "spo2_percent", Unit: "%", Min: 70, Max: 100, Typical: 98, Precision: 2},
	{Name: "temperature_c", Unit: "C", Min: 35.0, Max: 41.0, Typical: 36.8, Precision: 2},
	{Name: "respiratory_rate_bpm", Unit: "breaths/min", Min: 8, Max: 40, Typical: 16, Precision: 2},
	{Name: "blood_glucose_mgdl", Unit: "mg/dL", Min: 70, Max: 400, Typical: 100, Precision: 2},
}

func VitalKindByName(name string) (VitalKind, bool) {
	for _, k := range VitalKinds {
		if k.Name == name {
			return k, true
		}
	}
	return VitalKind{}, false
}

const randomAlertChance = 0.05

// IsAlert applies the clinical thresholds. Vitals without a hard threshold
// get a small random alert probability instead.
func IsAlert(vital string, value float64) bool {
	switch vital {
	case "heart_rate_bpm":
		return value > 120 || value < 50
	case "spo2_percent":
		return value < 92
	case "blood_pressure_sys_mmhg":
		return value > 160 || value < 90
	default:
		return rand.Float64() < randomAlertChance
	}
}

// HeartRateOffset models the circadian rhythm: low while asleep, elevated
// during active hours.
func HeartRateOffset(hour int) float64 {
	switch {
	case hour >= 2 && hour <= 6:
		return -10
	case hour >= 8 && hour <= 18:
		return 5
	default:
		return 0
	}
}

// HeartRateJitter is the half-width of the uniform noise band for the hour:
// readings are steadier during sleep and noisier while active.
func HeartRateJitter(hour int) float64 {
	switch {
	case hour >= 2 && hour <= 6:
		return 5
	case hour >= 8 && hour <= 18:
		return 10
	default:
		return 8
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
