package solver

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"viscolab/core/mixture"
	"viscolab/core/precision"
	"viscolab/core/walther"
	verrors "viscolab/internal/errors"
	"viscolab/internal/logging"
)

const (
	// negativeTolerance is how far below zero a solved fraction may fall
	negativeTolerance = 1e-6

	// sumTolerance is the allowed drift of the fraction total from 1
	sumTolerance = 1e-6

	// viscosityTolerance is the mm²/s slack when checking a fully fixed blend
	viscosityTolerance = 1e-6
)

// Solver designs blends using a LinearSolver backend
type Solver struct {
	lp LinearSolver
}

// New creates a Solver. A nil backend selects the simplex solver.
func New(backend LinearSolver) *Solver {
	if backend == nil {
		backend = NewSimplexSolver(DefaultTolerance)
	}
	return &Solver{lp: backend}
}

// Solve is a convenience wrapper using the default simplex backend
func Solve(req Request) (*Result, error) {
	return New(nil).Solve(req)
}

// Solve classifies the request, solves its linear program and returns the
// fractions in request order with the blend viscosity.
func (s *Solver) Solve(req Request) (*Result, error) {
	plan, err := Build(req)
	if err != nil {
		return nil, err
	}
	if !plan.HasVariables() {
		return solveFixed(plan)
	}

	logging.Named("solver").Debug("solving blend",
		zap.Int("components", len(plan.Viscosities)),
		zap.Int("variables", plan.Problem.NumVars()),
		zap.Int("equalities", len(plan.Problem.Aeq)),
		zap.Int("inequalities", len(plan.Problem.Aub)))

	x, err := s.lp.Solve(plan.Problem)
	if err != nil {
		return nil, verrors.Wrap(verrors.TypeInfeasible, "no feasible solution found", err)
	}
	if len(x) != len(plan.VarIndex) {
		return nil, verrors.Internal(fmt.Sprintf("solver returned %d values for %d variables", len(x), len(plan.VarIndex)), nil)
	}

	return finish(plan, x)
}

// solveFixed handles requests where every share is fixed: the shares must
// total 100% and the blend must meet any mixture constraint as it stands.
func solveFixed(plan *Plan) (*Result, error) {
	if math.Abs(plan.FixedSum-1) > sumTolerance {
		return nil, verrors.Input("fixed components must total exactly 100%")
	}
	v := walther.Inverse(plan.FixedX)
	if err := plan.mixture.check(v); err != nil {
		return nil, err
	}

	res := &Result{Viscosity: v, Percents: make([]float64, len(plan.Fixed))}
	for i, f := range plan.Fixed {
		res.Percents[i] = precision.Percent(f)
	}
	return res, nil
}

func (m mixtureBounds) check(v float64) error {
	if m.setValue != nil && math.Abs(v-*m.setValue) > viscosityTolerance {
		return verrors.Infeasible(fmt.Sprintf("mixture viscosity %g does not match target %g", v, *m.setValue))
	}
	if m.min != nil && (v < *m.min-viscosityTolerance || v > *m.max+viscosityTolerance) {
		return verrors.Infeasible(fmt.Sprintf("mixture viscosity %g is outside [%g, %g]", v, *m.min, *m.max))
	}
	return nil
}

// finish merges solved variables with fixed shares and cleans up numerical drift.
func finish(plan *Plan, x []float64) (*Result, error) {
	fractions := make([]float64, len(plan.Fixed))
	copy(fractions, plan.Fixed)
	for j, idx := range plan.VarIndex {
		fractions[idx] = x[j]
	}

	total := 0.0
	for i, f := range fractions {
		if f < -negativeTolerance {
			return nil, verrors.Internal("solution contains a negative fraction", nil).WithContext("component", i+1)
		}
		total += f
	}

	res := &Result{}
	if math.Abs(total-1) > sumTolerance {
		if total <= 0 {
			return nil, verrors.Internal("solution fractions sum to zero", nil)
		}
		for i := range fractions {
			fractions[i] /= total
		}
		msg := fmt.Sprintf("fractions summed to %.9f and were renormalized to 100%%", total)
		res.Warnings = append(res.Warnings, msg)
		logging.Named("solver").Warn("renormalized blend solution", zap.Float64("sum", total))
	}

	res.Viscosity = mixture.Blend(plan.Viscosities, fractions)
	res.Percents = make([]float64, len(fractions))
	for i, f := range fractions {
		res.Percents[i] = precision.Percent(f)
	}
	return res, nil
}
