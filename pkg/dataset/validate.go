package dataset

import (
	"fmt"
	"os"
	"regexp"

	"github.com/vitalbench/vitalbench/pkg/health"
)

var patientIDPattern = regexp.MustCompile(`^PATIENT_\d{5}$`)

type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Validator runs the dataset acceptance checks in a streaming pass so large
// files never have to be held in memory.
type Validator struct {
	rows uint64

	emptyFields      uint64
	outOfOrder       uint64
	nonBinaryAlerts  uint64
	badPatientIDs    uint64
	outOfRangeValues uint64

	havePrev bool
	prev     Reading
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(r Reading) {
	v.rows++

	if r.PatientID == "" || r.DeviceID == "" || r.VitalType == "" ||
		r.Department == "" || r.DataSensitivity == "" || r.IngestionBatch == "" {
		v.emptyFields++
	}

	if v.havePrev && r.Timestamp.Before(v.prev.Timestamp) {
		v.outOfOrder++
	}
	v.prev = r
	v.havePrev = true

	if r.AlertFlag != 0 && r.AlertFlag != 1 {
		v.nonBinaryAlerts++
	}

	if !patientIDPattern.MatchString(r.PatientID) {
		v.badPatientIDs++
	}

	if kind, ok := health.VitalKindByName(r.VitalType); ok {
		if r.Value < kind.Min || r.Value > kind.Max {
			v.outOfRangeValues++
		}
	} else {
		v.outOfRangeValues++
	}
}

func (v *Validator) Results() []Check {
	check := func(name string, failures uint64) Check {
		c := Check{Name: name, Passed: failures == 0}
		if failures > 0 {
			c.Detail = fmt.Sprintf("%d offending rows", failures)
		}
		return c
	}
	return []Check{
		check("No empty fields", v.emptyFields),
		check("Timestamps are non-decreasing", v.outOfOrder),
		check("Alert flags are binary (0 or 1)", v.nonBinaryAlerts),
		check("Patient ids match PATIENT_ddddd", v.badPatientIDs),
		check("Values within vital ranges", v.outOfRangeValues),
	}
}

func (v *Validator) AllPassed() bool {
	for _, c := range v.Results() {
		if !c.Passed {
			return false
		}
	}
	return true
}

// ValidateFile re-reads a generated dataset and runs all checks over it.
func ValidateFile(path string) ([]Check, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return nil, false, err
	}

	v := NewValidator()
	for {
		reading, ok, err := r.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		v.Add(reading)
	}
	return v.Results(), v.AllPassed(), nil
}
