package solver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viscolab/core/mixture"
	verrors "viscolab/internal/errors"
)

// stubSolver returns a canned answer so post-solve handling can be tested without an optimizer
type stubSolver struct {
	x   []float64
	err error
	got *Problem
}

func (s *stubSolver) Solve(p Problem) ([]float64, error) {
	s.got = &p
	return s.x, s.err
}

func sum(xs []float64) float64 {
	t := 0.0
	for _, x := range xs {
		t += x
	}
	return t
}

func TestSolveAllFixed(t *testing.T) {
	res, err := Solve(Request{Components: []Component{
		{Viscosity: 10, Role: Fixed{Percent: 30}},
		{Viscosity: 100, Role: Fixed{Percent: 70}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 70}, res.Percents)
	assert.InDelta(t, mixture.Blend([]float64{10, 100}, []float64{0.3, 0.7}), res.Viscosity, 1e-12)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, map[int]float64{0: 30, 1: 70}, res.Fractions())
}

func TestSolveAllFixedChecksMixture(t *testing.T) {
	fixed := []Component{
		{Viscosity: 10, Role: Fixed{Percent: 30}},
		{Viscosity: 100, Role: Fixed{Percent: 70}},
	}
	v := mixture.Blend([]float64{10, 100}, []float64{0.3, 0.7})

	_, err := Solve(Request{Components: fixed, Mixture: MixtureSetValue{Viscosity: v}})
	require.NoError(t, err)

	_, err = Solve(Request{Components: fixed, Mixture: MixtureSetValue{Viscosity: 50}})
	assert.True(t, verrors.IsType(err, verrors.TypeInfeasible))

	_, err = Solve(Request{Components: fixed, Mixture: MixtureRange{Min: 20, Max: 40}})
	assert.True(t, verrors.IsType(err, verrors.TypeInfeasible))

	_, err = Solve(Request{Components: fixed, Mixture: MixtureRange{Min: 40, Max: 45}})
	assert.NoError(t, err)
}

func TestSolveAllFixedMustTotal100(t *testing.T) {
	_, err := Solve(Request{Components: []Component{
		{Viscosity: 10, Role: Fixed{Percent: 30}},
		{Viscosity: 100, Role: Fixed{Percent: 60}},
	}})
	assert.True(t, verrors.IsType(err, verrors.TypeInput))
}

func TestSolveOneFreeComponentTakesRemainder(t *testing.T) {
	res, err := Solve(Request{Components: []Component{
		{Viscosity: 32, Role: Fixed{Percent: 40}},
		{Viscosity: 100, Role: Free{}},
	}})
	require.NoError(t, err)
	assert.InDelta(t, 40, res.Percents[0], 1e-6)
	assert.InDelta(t, 60, res.Percents[1], 1e-6)
}

func TestSolveFreeComponentsWithoutObjective(t *testing.T) {
	res, err := Solve(Request{Components: []Component{
		{Viscosity: 10},
		{Viscosity: 46, Role: Range{Min: 10, Max: 50}},
		{Viscosity: 100},
	}})
	require.NoError(t, err)
	assert.InDelta(t, 100, sum(res.Percents), 1e-5)
	for _, p := range res.Percents {
		assert.GreaterOrEqual(t, p, 0.0)
	}
	assert.GreaterOrEqual(t, res.Percents[1], 10-1e-6)
	assert.LessOrEqual(t, res.Percents[1], 50+1e-6)
}

func TestSolveMixtureSetValueRecoversSplit(t *testing.T) {
	target := mixture.Blend([]float64{10, 100}, []float64{0.3, 0.7})
	res, err := Solve(Request{
		Components: []Component{{Viscosity: 10}, {Viscosity: 100}},
		Mixture:    MixtureSetValue{Viscosity: target},
	})
	require.NoError(t, err)
	assert.InDelta(t, 30, res.Percents[0], 1e-4)
	assert.InDelta(t, 70, res.Percents[1], 1e-4)
	assert.InDelta(t, target, res.Viscosity, 1e-6)
}

func TestSolveMixtureObjectiveMax(t *testing.T) {
	res, err := Solve(Request{
		Components: []Component{
			{Viscosity: 10},
			{Viscosity: 100, Role: Range{Min: 0, Max: 50}},
		},
		Mixture: MixtureObjective{Sense: Maximize},
	})
	require.NoError(t, err)
	assert.InDelta(t, 50, res.Percents[0], 1e-6)
	assert.InDelta(t, 50, res.Percents[1], 1e-6)
}

func TestSolveMixtureObjectiveMin(t *testing.T) {
	res, err := Solve(Request{
		Components: []Component{
			{Viscosity: 10, Role: Range{Min: 0, Max: 80}},
			{Viscosity: 100},
		},
		Mixture: MixtureObjective{Sense: Minimize},
	})
	require.NoError(t, err)
	assert.InDelta(t, 80, res.Percents[0], 1e-6)
	assert.InDelta(t, 20, res.Percents[1], 1e-6)
}

func TestSolveComponentObjectiveAgainstMixtureRange(t *testing.T) {
	// least of the heavy base that still keeps the blend at or above 30 mm²/s
	res, err := Solve(Request{
		Components: []Component{
			{Viscosity: 10},
			{Viscosity: 100, Role: Objective{Sense: Minimize}},
		},
		Mixture: MixtureRange{Min: 30, Max: 60},
	})
	require.NoError(t, err)

	want, err := mixture.SolveTwo(30, 10, 100, nil)
	require.NoError(t, err)
	assert.InDelta(t, want.PercentB, res.Percents[1], 1e-4)
	assert.InDelta(t, 30, res.Viscosity, 1e-4)
}

func TestSolveComponentObjectiveMax(t *testing.T) {
	res, err := Solve(Request{
		Components: []Component{
			{Viscosity: 460, Role: Fixed{Percent: 10}},
			{Viscosity: 10, Role: Objective{Sense: Maximize}},
			{Viscosity: 100, Role: Range{Min: 25, Max: 90}},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 10, res.Percents[0], 1e-6)
	assert.InDelta(t, 65, res.Percents[1], 1e-6)
	assert.InDelta(t, 25, res.Percents[2], 1e-6)
}

func TestSolveInfeasibleTarget(t *testing.T) {
	_, err := Solve(Request{
		Components: []Component{{Viscosity: 10}, {Viscosity: 100}},
		Mixture:    MixtureSetValue{Viscosity: 500},
	})
	require.Error(t, err)
	assert.True(t, verrors.IsType(err, verrors.TypeInfeasible))
}

func TestSolveEqualViscositiesWithSetValue(t *testing.T) {
	comps := []Component{{Viscosity: 50}, {Viscosity: 50}}

	res, err := Solve(Request{Components: comps, Mixture: MixtureSetValue{Viscosity: 50}})
	require.NoError(t, err)
	assert.InDelta(t, 100, sum(res.Percents), 1e-5)
	assert.InDelta(t, 50, res.Viscosity, 1e-9)

	_, err = Solve(Request{Components: comps, Mixture: MixtureSetValue{Viscosity: 60}})
	assert.True(t, verrors.IsType(err, verrors.TypeInfeasible))
}

func TestSolveRejectsTwoObjectiveMax(t *testing.T) {
	_, err := Solve(Request{Components: []Component{
		{Viscosity: 10, Role: Objective{Sense: Maximize}},
		{Viscosity: 100, Role: Objective{Sense: Maximize}},
	}})
	assert.True(t, verrors.IsType(err, verrors.TypeInput))
}

func TestSolveMapsBackendFailure(t *testing.T) {
	s := New(&stubSolver{err: errors.New("boom")})
	_, err := s.Solve(Request{Components: []Component{{Viscosity: 10}, {Viscosity: 100}}})
	assert.True(t, verrors.IsType(err, verrors.TypeInfeasible))
}

func TestSolveNegativeFractionIsInternal(t *testing.T) {
	s := New(&stubSolver{x: []float64{1.1, -0.1}})
	_, err := s.Solve(Request{Components: []Component{{Viscosity: 10}, {Viscosity: 100}}})
	assert.True(t, verrors.IsType(err, verrors.TypeInternal))
}

func TestSolveWrongLengthIsInternal(t *testing.T) {
	s := New(&stubSolver{x: []float64{1}})
	_, err := s.Solve(Request{Components: []Component{{Viscosity: 10}, {Viscosity: 100}}})
	assert.True(t, verrors.IsType(err, verrors.TypeInternal))
}

func TestSolveRenormalizesDrift(t *testing.T) {
	stub := &stubSolver{x: []float64{0.3, 0.6}}
	res, err := New(stub).Solve(Request{Components: []Component{{Viscosity: 10}, {Viscosity: 100}}})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "renormalized")
	assert.InDelta(t, 33.333333, res.Percents[0], 1e-6)
	assert.InDelta(t, 66.666667, res.Percents[1], 1e-6)
	require.NotNil(t, stub.got)
	assert.Equal(t, 2, stub.got.NumVars())
}
