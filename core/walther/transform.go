// Package walther implements the Walther viscosity-temperature correlation.
//
// The correlation linearizes kinematic viscosity v (mm²/s) against absolute
// temperature T (K):
//
//	log10(log10(v + 0.7)) = intercept - slope * log10(T)
//
// The left-hand side is the transformed coordinate x used throughout the
// engine; mixtures blend linearly in x.
package walther

import (
	"fmt"
	"math"

	verrors "viscolab/internal/errors"
)

const (
	// Offset is the Walther viscosity offset in mm²/s
	Offset = 0.7

	// Kelvin converts °C to K
	Kelvin = 273.15

	// MinViscosity is the exclusive lower bound of the transform domain
	MinViscosity = 1 - Offset
)

// Forward maps a viscosity to the transformed coordinate x = log10(log10(v + 0.7)).
// Viscosities at or below 0.3 mm²/s have no real image and yield a domain error.
func Forward(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, verrors.Domain("viscosity must be a finite number")
	}
	inner := math.Log10(v + Offset)
	if v+Offset <= 0 || inner <= 0 {
		return 0, verrors.Newf(verrors.TypeDomain,
			"viscosity %g mm²/s is outside the Walther domain (must exceed %g)", v, MinViscosity)
	}
	return math.Log10(inner), nil
}

// MustForward is Forward for values already validated by the caller.
func MustForward(v float64) float64 {
	x, err := Forward(v)
	if err != nil {
		panic(fmt.Sprintf("walther: %v", err))
	}
	return x
}

// Inverse maps a transformed coordinate back to viscosity. Overflow yields +Inf.
func Inverse(x float64) float64 {
	return math.Pow(10, math.Pow(10, x)) - Offset
}

// LogTemperature returns log10 of the absolute temperature for t in °C.
func LogTemperature(t float64) (float64, error) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, verrors.Input("temperature must be a finite number")
	}
	if t <= -Kelvin {
		return 0, verrors.Inputf("temperature %g °C is at or below absolute zero", t)
	}
	return math.Log10(t + Kelvin), nil
}
