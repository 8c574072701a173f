// Package vi computes the kinematic viscosity index (ASTM D2270) from the
// viscosities at 40 °C and 100 °C.
//
// The index is an engineering estimate: inputs for which the formulas are
// undefined produce NaN instead of an error.
package vi

import (
	"math"

	"viscolab/core/precision"
	"viscolab/core/walther"
)

// Result is a computed index with its inputs
type Result struct {
	V40  float64 `json:"v40"`
	V100 float64 `json:"v100"`
	VI   float64 `json:"vi"`
	Band Band    `json:"-"`
}

// Defined reports whether the index could be computed.
func (r Result) Defined() bool {
	return !math.IsNaN(r.VI) && !math.IsInf(r.VI, 0)
}

// Compute returns the viscosity index rounded to one decimal, or NaN.
func Compute(v40, v100 float64) float64 {
	return Evaluate(v40, v100).VI
}

// Evaluate computes the index and reports which band produced it.
func Evaluate(v40, v100 float64) Result {
	r := Result{V40: v40, V100: v100, VI: math.NaN(), Band: BandFor(v100)}
	if !(v40 > 0) || !(v100 > 0) || math.IsInf(v40, 0) || math.IsInf(v100, 0) {
		return r
	}

	var raw float64
	if r.Band == BandLow {
		raw = lowViscosity(v40, v100)
	} else {
		a, b, _ := r.Band.reference(v100)
		raw = fromReference(v40, v100, a, b)
	}
	r.VI = precision.Round(raw, precision.VIPlaces)
	return r
}

// lowViscosity extrapolates for Y < 2 mm²/s.
func lowViscosity(u, y float64) float64 {
	logU, err := walther.Forward(u)
	if err != nil {
		return math.NaN()
	}
	logY, err := walther.Forward(y)
	if err != nil {
		return math.NaN()
	}
	aj5 := walther.Inverse(logU + (logU-logY)*0.04022)
	aj6 := walther.Inverse(logU + (logU-logY)*0.98316)

	den := 0.34984*aj6*aj6 + 0.1725*aj6
	if den == 0 {
		return math.NaN()
	}
	return 100 * (1.2665*aj6*aj6 + 1.655*aj6 - aj5) / den
}

// fromReference applies the D2270 procedure A/B split: below VI 100 the
// linear form c is used, above it the logarithmic form e.
func fromReference(u, y, a, b float64) float64 {
	if b == 0 || a <= 0 {
		return math.NaN()
	}
	c := 100 * (a + b - u) / b
	d := (math.Log(a) - math.Log(u)) / math.Log(y)
	e := (math.Pow(10, d)-1)/0.00715 + 100
	if c > 100 {
		return e
	}
	return c
}
