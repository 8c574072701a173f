package mixture

import (
	"math"

	"viscolab/core/precision"
	"viscolab/core/walther"
	verrors "viscolab/internal/errors"
)

const (
	// feasibilityTolerance is how far below zero a solved fraction may fall before it is rejected
	feasibilityTolerance = 1e-6

	// distinctBases is the minimum transformed-coordinate gap between the two bases
	distinctBases = 1e-12
)

// TwoResult holds the base proportions, in percent of the whole blend
type TwoResult struct {
	PercentA float64 `json:"percentA"`
	PercentB float64 `json:"percentB"`
}

// SolveTwo finds the proportions of bases A and B that bring a blend, which may
// already contain known components, to the target viscosity.
//
// With x the Walther coordinate and p_rem the share left after the known
// components, it solves
//
//	p_A·x_A + p_B·x_B + Σ p_k·x_k = x_target
//	p_A + p_B = p_rem
func SolveTwo(target, baseA, baseB float64, known []Share) (TwoResult, error) {
	for _, v := range []struct {
		name string
		val  float64
	}{{"target", target}, {"base A", baseA}, {"base B", baseB}} {
		if !(v.val > 0) || math.IsInf(v.val, 0) {
			return TwoResult{}, verrors.Inputf("%s viscosity must be positive", v.name)
		}
	}

	sumKnown, xKnown := 0.0, 0.0
	for i, k := range known {
		if k.Percent < 0 || math.IsNaN(k.Percent) || math.IsInf(k.Percent, 0) {
			return TwoResult{}, verrors.Inputf("known component %d: percentage must be non-negative", i+1)
		}
		if !(k.Viscosity > 0) {
			return TwoResult{}, verrors.Inputf("known component %d: viscosity must be positive", i+1)
		}
		x, err := walther.Forward(k.Viscosity)
		if err != nil {
			return TwoResult{}, verrors.Wrapf(verrors.TypeInput, err, "known component %d", i+1)
		}
		p := precision.Fraction(k.Percent)
		sumKnown += p
		xKnown += p * x
	}
	if sumKnown >= 1 {
		return TwoResult{}, verrors.Input("known components must total less than 100%")
	}

	xTarget, err := walther.Forward(target)
	if err != nil {
		return TwoResult{}, verrors.Wrap(verrors.TypeInput, "target", err)
	}
	xA, err := walther.Forward(baseA)
	if err != nil {
		return TwoResult{}, verrors.Wrap(verrors.TypeInput, "base A", err)
	}
	xB, err := walther.Forward(baseB)
	if err != nil {
		return TwoResult{}, verrors.Wrap(verrors.TypeInput, "base B", err)
	}

	den := xA - xB
	if math.Abs(den) < distinctBases {
		return TwoResult{}, verrors.Input("base viscosities must differ")
	}

	pRem := 1 - sumKnown
	pA := (xTarget - xKnown - pRem*xB) / den
	pB := pRem - pA

	if pA < -feasibilityTolerance || pB < -feasibilityTolerance {
		return TwoResult{}, verrors.Infeasible("target viscosity cannot be reached with these two bases")
	}
	pA = math.Max(pA, 0)
	pB = math.Max(pB, 0)
	if pA+pB > pRem+feasibilityTolerance {
		return TwoResult{}, verrors.Infeasible("target viscosity cannot be reached with these two bases")
	}

	return TwoResult{PercentA: pA * 100, PercentB: pB * 100}, nil
}
