package data

import (
	"math"
	"math/rand"
)

// Distribution provides values for the vital-sign synthesizers. Advance
// computes the next value, Get returns it without changing state.
type Distribution interface {
	Advance()
	Get() float64
}

type UniformDistribution struct {
	Low  float64
	High float64

	value float64
}

func UD(low, high float64) *UniformDistribution {
	return &UniformDistribution{Low: low, High: high}
}

func (d *UniformDistribution) Advance() {
	d.value = d.Low + rand.Float64()*(d.High-d.Low)
}

func (d *UniformDistribution) Get() float64 {
	return d.value
}

// FloatPrecision truncates another distribution to a fixed number of
// decimal places, matching how monitors report readings.
type FloatPrecision struct {
	step      Distribution
	precision float64
}

func FP(step Distribution, precision int) *FloatPrecision {
	if precision < 0 {
		precision = 0
	} else if precision > 5 {
		precision = 5
	}
	return &FloatPrecision{
		step:      step,
		precision: math.Pow(10, float64(precision)),
	}
}

func (f *FloatPrecision) Advance() {
	f.step.Advance()
}

func (f *FloatPrecision) Get() float64 {
	return float64(int(f.step.Get()*f.precision)) / f.precision
}
