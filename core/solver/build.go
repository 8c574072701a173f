package solver

import (
	"math"

	"viscolab/core/precision"
	"viscolab/core/walther"
	verrors "viscolab/internal/errors"
)

// fixedOverflow is how far fixed shares may exceed 100% before the request is rejected
const fixedOverflow = 1e-9

// Problem is a linear program in general form over the variable fractions p:
//
//	minimize    C·p
//	subject to  Aub·p <= Bub
//	            Aeq·p  = Beq
//	            Lower <= p <= Upper
type Problem struct {
	C     []float64
	Aub   [][]float64
	Bub   []float64
	Aeq   [][]float64
	Beq   []float64
	Lower []float64
	Upper []float64
}

// NumVars returns the number of decision variables
func (p *Problem) NumVars() int {
	return len(p.C)
}

// mixtureBounds is the blend viscosity window checked when nothing is free to vary
type mixtureBounds struct {
	setValue *float64
	min, max *float64
}

// Plan is a classified request: the fixed part, the variable part and the
// linear program over the variables.
type Plan struct {
	// Problem is empty when every component is fixed
	Problem Problem

	// Viscosities holds every component's viscosity in request order
	Viscosities []float64

	// Fixed holds the fixed fractions in request order, 0 for variables
	Fixed []float64

	// VarIndex maps variable j to its component index
	VarIndex []int

	// VarX holds the Walther coordinate of each variable
	VarX []float64

	// FixedSum and FixedX are Σp and Σp·x over fixed components
	FixedSum float64
	FixedX   float64

	mixture mixtureBounds
}

// HasVariables reports whether any fraction is left to the linear program
func (p *Plan) HasVariables() bool {
	return len(p.VarIndex) > 0
}

// objective records the single objective found during classification
type objective struct {
	mixture bool
	index   int
	sense   Sense
}

// Build validates a request and assembles its linear program.
func Build(req Request) (*Plan, error) {
	n := len(req.Components)
	if n == 0 {
		return nil, verrors.Input("no components supplied")
	}

	plan := &Plan{
		Viscosities: make([]float64, n),
		Fixed:       make([]float64, n),
	}
	var obj *objective
	var lower, upper []float64

	for i, comp := range req.Components {
		if !(comp.Viscosity > 0) || math.IsInf(comp.Viscosity, 0) {
			return nil, verrors.Inputf("component %d: viscosity must be positive", i+1)
		}
		x, err := walther.Forward(comp.Viscosity)
		if err != nil {
			return nil, verrors.Wrapf(verrors.TypeInput, err, "component %d", i+1)
		}
		plan.Viscosities[i] = comp.Viscosity

		role := comp.Role
		if role == nil {
			role = Free{}
		}

		lb, ub := 0.0, 1.0
		switch r := role.(type) {
		case Fixed:
			if math.IsNaN(r.Percent) || r.Percent < 0 || r.Percent > 100 {
				return nil, verrors.Inputf("component %d: fixed value must be between 0 and 100", i+1)
			}
			p := precision.Fraction(r.Percent)
			plan.Fixed[i] = p
			plan.FixedSum += p
			plan.FixedX += p * x
			continue
		case Free:
		case Range:
			lb, ub = precision.Fraction(r.Min), precision.Fraction(r.Max)
			if math.IsNaN(lb) || math.IsNaN(ub) || lb < 0 || ub > 1 || lb > ub {
				return nil, verrors.Inputf("component %d: range is invalid (need 0 <= min <= max <= 100)", i+1)
			}
		case Objective:
			if obj != nil {
				return nil, verrors.Input("multiple objectives not allowed")
			}
			obj = &objective{index: len(plan.VarIndex), sense: r.Sense}
		default:
			return nil, verrors.Inputf("component %d: unsupported role %T", i+1, role)
		}

		plan.VarIndex = append(plan.VarIndex, i)
		plan.VarX = append(plan.VarX, x)
		lower = append(lower, lb)
		upper = append(upper, ub)
	}

	mix := req.Mixture
	if mix == nil {
		mix = MixtureFree{}
	}
	switch m := mix.(type) {
	case MixtureFree:
	case MixtureObjective:
		if obj != nil {
			return nil, verrors.Input("multiple objectives not allowed")
		}
		obj = &objective{mixture: true, sense: m.Sense}
	case MixtureSetValue:
		if !(m.Viscosity > 0) || math.IsInf(m.Viscosity, 0) {
			return nil, verrors.Input("mixture viscosity must be positive")
		}
		if _, err := walther.Forward(m.Viscosity); err != nil {
			return nil, verrors.Wrap(verrors.TypeInput, "mixture set value", err)
		}
		v := m.Viscosity
		plan.mixture.setValue = &v
	case MixtureRange:
		if !(m.Min > 0) || !(m.Max > 0) || m.Min > m.Max || math.IsInf(m.Max, 0) {
			return nil, verrors.Input("mixture range is invalid")
		}
		for _, v := range []float64{m.Min, m.Max} {
			if _, err := walther.Forward(v); err != nil {
				return nil, verrors.Wrap(verrors.TypeInput, "mixture range", err)
			}
		}
		lo, hi := m.Min, m.Max
		plan.mixture.min, plan.mixture.max = &lo, &hi
	default:
		return nil, verrors.Inputf("unsupported mixture role %T", mix)
	}

	if plan.FixedSum > 1+fixedOverflow {
		return nil, verrors.Input("fixed components exceed 100%")
	}
	if !plan.HasVariables() {
		return plan, nil
	}

	plan.Problem = plan.assemble(lower, upper, obj)
	return plan, nil
}

// assemble builds the rows of the linear program for the variable fractions.
func (p *Plan) assemble(lower, upper []float64, obj *objective) Problem {
	m := len(p.VarIndex)
	prob := Problem{
		C:     make([]float64, m),
		Lower: lower,
		Upper: upper,
	}

	ones := make([]float64, m)
	for j := range ones {
		ones[j] = 1
	}
	prob.Aeq = append(prob.Aeq, ones)
	prob.Beq = append(prob.Beq, math.Max(0, 1-p.FixedSum))

	switch {
	case p.mixture.setValue != nil:
		prob.Aeq = append(prob.Aeq, cloneRow(p.VarX))
		prob.Beq = append(prob.Beq, walther.MustForward(*p.mixture.setValue)-p.FixedX)
	case p.mixture.min != nil:
		// x_mix >= x_min written as -Σp·x <= -(x_min - fixed)
		neg := make([]float64, m)
		for j, x := range p.VarX {
			neg[j] = -x
		}
		prob.Aub = append(prob.Aub, neg, cloneRow(p.VarX))
		prob.Bub = append(prob.Bub,
			-(walther.MustForward(*p.mixture.min) - p.FixedX),
			walther.MustForward(*p.mixture.max)-p.FixedX)
	}

	if obj != nil {
		sign := 1.0
		if obj.sense == Maximize {
			sign = -1
		}
		if obj.mixture {
			for j, x := range p.VarX {
				prob.C[j] = sign * x
			}
		} else {
			prob.C[obj.index] = sign
		}
	}
	return prob
}

func cloneRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}
