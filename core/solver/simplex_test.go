package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplexSolvesBoundedProblem(t *testing.T) {
	// maximize p0 + 2 p1 with p0 + p1 = 1, 0.2 <= p0 <= 1, 0 <= p1 <= 0.5
	prob := Problem{
		C:     []float64{-1, -2},
		Aeq:   [][]float64{{1, 1}},
		Beq:   []float64{1},
		Lower: []float64{0.2, 0},
		Upper: []float64{1, 0.5},
	}
	x, err := NewSimplexSolver(0).Solve(prob)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, x[0], 1e-9)
	assert.InDelta(t, 0.5, x[1], 1e-9)
}

func TestSimplexHonoursInequalities(t *testing.T) {
	// minimize p1 with p0 + p1 = 1 and p1 >= 0.25 (as -p1 <= -0.25)
	prob := Problem{
		C:     []float64{0, 1},
		Aub:   [][]float64{{0, -1}},
		Bub:   []float64{-0.25},
		Aeq:   [][]float64{{1, 1}},
		Beq:   []float64{1},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
	}
	x, err := NewSimplexSolver(1e-10).Solve(prob)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, x[0], 1e-9)
	assert.InDelta(t, 0.25, x[1], 1e-9)
}

func TestSimplexInfeasible(t *testing.T) {
	prob := Problem{
		C:     []float64{0, 0},
		Aeq:   [][]float64{{1, 1}},
		Beq:   []float64{1},
		Lower: []float64{0, 0},
		Upper: []float64{0.3, 0.3},
	}
	_, err := NewSimplexSolver(0).Solve(prob)
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestSimplexSingleVariableWithDependentRows(t *testing.T) {
	// the second row is the first scaled, so only one survives elimination
	prob := Problem{
		C:     []float64{0},
		Aeq:   [][]float64{{1}, {0.4}},
		Beq:   []float64{0.6, 0.24},
		Lower: []float64{0},
		Upper: []float64{1},
	}
	x, err := NewSimplexSolver(0).Solve(prob)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, x[0], 1e-9)
}

func TestSimplexEmptyProblem(t *testing.T) {
	_, err := NewSimplexSolver(0).Solve(Problem{})
	assert.ErrorIs(t, err, ErrEmptyProblem)
}

func TestReduceEqualities(t *testing.T) {
	rows, rhs, err := reduceEqualities(Problem{
		C:     []float64{0, 0},
		Aeq:   [][]float64{{1, 1}, {2, 2}},
		Beq:   []float64{1, 2},
		Lower: []float64{0, 0},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, rhs, 1)

	_, _, err = reduceEqualities(Problem{
		C:     []float64{0, 0},
		Aeq:   [][]float64{{1, 1}, {2, 2}},
		Beq:   []float64{1, 3},
		Lower: []float64{0, 0},
	})
	assert.ErrorIs(t, err, ErrInfeasible)

	// lower bounds shift the right-hand side
	rows, rhs, err = reduceEqualities(Problem{
		C:     []float64{0, 0},
		Aeq:   [][]float64{{1, 1}, {1, -1}},
		Beq:   []float64{1, 0},
		Lower: []float64{0.1, 0.2},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.InDelta(t, 0.7, rhs[0], 1e-12)
	assert.InDelta(t, -0.6, rhs[1], 1e-12)
}

func TestToStandardFormShape(t *testing.T) {
	std, err := toStandardForm(Problem{
		C:     []float64{1, 0, 0},
		Aub:   [][]float64{{1, 1, 1}},
		Bub:   []float64{0.9},
		Aeq:   [][]float64{{1, 1, 1}},
		Beq:   []float64{1},
		Lower: []float64{0, 0, 0},
		Upper: []float64{1, 1, 1},
	})
	require.NoError(t, err)
	// 3 variables + 3 upper slacks + 1 inequality slack; 1 equality + 4 slack rows
	assert.Len(t, std.c, 7)
	assert.Len(t, std.b, 5)
	assert.Len(t, std.a, 35)
	for _, b := range std.b {
		assert.GreaterOrEqual(t, b, 0.0)
	}
}
