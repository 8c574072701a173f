// Package mixture blends lubricant components and solves for two unknown
// base proportions. Blending is a weighted average of the Walther coordinate
// x = log10(log10(v + 0.7)), not of the viscosities themselves.
package mixture

import (
	"math"

	"viscolab/core/precision"
	"viscolab/core/walther"
	verrors "viscolab/internal/errors"
)

// SumTolerance is the allowed deviation of a fraction total from 1
const SumTolerance = 1e-6

// Share is a component given as a percentage (0-100) of the blend
type Share struct {
	Percent   float64 `json:"percent"`
	Viscosity float64 `json:"viscosity"`
}

// Blend returns the viscosity of a mixture of components at the given fractions.
// Mismatched or empty slices and viscosities outside the Walther domain yield NaN.
// Fractions are used as given.
func Blend(viscosities, fractions []float64) float64 {
	if len(viscosities) == 0 || len(viscosities) != len(fractions) {
		return math.NaN()
	}
	xMix := 0.0
	for i, v := range viscosities {
		x, err := walther.Forward(v)
		if err != nil {
			return math.NaN()
		}
		xMix += fractions[i] * x
	}
	return walther.Inverse(xMix)
}

// BlendShares validates percentage shares and blends them. Percentages must
// be non-negative and total 100.
func BlendShares(shares []Share) (float64, error) {
	if len(shares) == 0 {
		return 0, verrors.Input("no components provided")
	}
	viscosities := make([]float64, len(shares))
	fractions := make([]float64, len(shares))
	total := 0.0
	for i, s := range shares {
		if s.Percent < 0 || math.IsNaN(s.Percent) || math.IsInf(s.Percent, 0) {
			return 0, verrors.Inputf("component %d: percentage must be a non-negative number", i+1)
		}
		if _, err := walther.Forward(s.Viscosity); err != nil {
			return 0, verrors.Wrapf(verrors.TypeInput, err, "component %d", i+1)
		}
		viscosities[i] = s.Viscosity
		fractions[i] = precision.Fraction(s.Percent)
		total += s.Percent
	}
	if math.Abs(total-100) > SumTolerance {
		return 0, verrors.Inputf("percentages sum to %g, must equal 100", total)
	}
	return Blend(viscosities, fractions), nil
}
