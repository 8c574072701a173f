package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var (
	// ErrInfeasible is returned by a LinearSolver when no point satisfies the constraints
	ErrInfeasible = errors.New("linear program is infeasible")

	// ErrEmptyProblem is returned for a problem without variables
	ErrEmptyProblem = errors.New("linear program has no variables")
)

// LinearSolver finds an optimal point of a general-form linear program.
type LinearSolver interface {
	Solve(p Problem) ([]float64, error)
}

// DefaultTolerance is the simplex optimality tolerance used when none is set
const DefaultTolerance = 1e-10

// rankTolerance decides when an eliminated equality row is zero
const rankTolerance = 1e-12

// SimplexSolver solves problems with gonum's simplex implementation.
//
// Each variable is shifted by its lower bound (q = p - lower >= 0), upper bounds
// and inequality rows get a slack column each, and redundant equality rows are
// eliminated so the standard-form matrix has full row rank.
type SimplexSolver struct {
	Tolerance float64
}

// NewSimplexSolver creates a solver with the given optimality tolerance
func NewSimplexSolver(tol float64) *SimplexSolver {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &SimplexSolver{Tolerance: tol}
}

// Solve implements LinearSolver
func (s *SimplexSolver) Solve(p Problem) ([]float64, error) {
	std, err := toStandardForm(p)
	if err != nil {
		return nil, err
	}

	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	A := mat.NewDense(len(std.b), len(std.c), std.a)
	_, x, err := lp.Simplex(std.c, A, std.b, tol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, ErrInfeasible
		}
		return nil, fmt.Errorf("simplex: %w", err)
	}

	out := make([]float64, p.NumVars())
	for j := range out {
		out[j] = x[j] + p.Lower[j]
	}
	return out, nil
}

// standardForm is min c·z s.t. A z = b, z >= 0 with A stored row-major
type standardForm struct {
	c []float64
	a []float64
	b []float64
}

func toStandardForm(p Problem) (*standardForm, error) {
	m := p.NumVars()
	if m == 0 {
		return nil, ErrEmptyProblem
	}
	if len(p.Lower) != m || len(p.Upper) != m || len(p.Aeq) != len(p.Beq) || len(p.Aub) != len(p.Bub) {
		return nil, fmt.Errorf("simplex: inconsistent problem dimensions")
	}

	eqRows, eqRHS, err := reduceEqualities(p)
	if err != nil {
		return nil, err
	}

	var bounded []int
	for j := 0; j < m; j++ {
		if p.Lower[j] > p.Upper[j] {
			return nil, ErrInfeasible
		}
		if !math.IsInf(p.Upper[j], 1) {
			bounded = append(bounded, j)
		}
	}

	nSlack := len(bounded) + len(p.Aub)
	cols := m + nSlack
	rows := len(eqRows) + nSlack
	if rows == 0 {
		return nil, fmt.Errorf("simplex: problem has no constraints")
	}

	std := &standardForm{
		c: make([]float64, cols),
		a: make([]float64, rows*cols),
		b: make([]float64, rows),
	}
	copy(std.c, p.C)

	r := 0
	setRow := func(coef []float64, slack int, rhs float64) {
		row := std.a[r*cols : (r+1)*cols]
		copy(row, coef)
		if slack >= 0 {
			row[m+slack] = 1
		}
		if rhs < 0 {
			for k := range row {
				row[k] = -row[k]
			}
			rhs = -rhs
		}
		std.b[r] = rhs
		r++
	}

	for i, row := range eqRows {
		setRow(row, -1, eqRHS[i])
	}
	slack := 0
	for _, j := range bounded {
		unit := make([]float64, m)
		unit[j] = 1
		setRow(unit, slack, p.Upper[j]-p.Lower[j])
		slack++
	}
	for i, row := range p.Aub {
		setRow(row, slack, p.Bub[i]-dot(row, p.Lower))
		slack++
	}
	return std, nil
}

// reduceEqualities shifts the equality rows by the lower bounds and removes
// linearly dependent rows by Gaussian elimination. A dependent row whose
// right-hand side disagrees makes the problem infeasible.
func reduceEqualities(p Problem) ([][]float64, []float64, error) {
	m := p.NumVars()
	rows := make([][]float64, 0, len(p.Aeq))
	rhs := make([]float64, 0, len(p.Aeq))
	for i, row := range p.Aeq {
		if len(row) != m {
			return nil, nil, fmt.Errorf("simplex: equality row %d has %d columns, want %d", i, len(row), m)
		}
		rows = append(rows, cloneRow(row))
		rhs = append(rhs, p.Beq[i]-dot(row, p.Lower))
	}

	rank := 0
	for col := 0; col < m && rank < len(rows); col++ {
		pivot := rank
		for i := rank + 1; i < len(rows); i++ {
			if math.Abs(rows[i][col]) > math.Abs(rows[pivot][col]) {
				pivot = i
			}
		}
		if math.Abs(rows[pivot][col]) <= rankTolerance {
			continue
		}
		rows[rank], rows[pivot] = rows[pivot], rows[rank]
		rhs[rank], rhs[pivot] = rhs[pivot], rhs[rank]
		for i := rank + 1; i < len(rows); i++ {
			f := rows[i][col] / rows[rank][col]
			if f == 0 {
				continue
			}
			for k := col; k < m; k++ {
				rows[i][k] -= f * rows[rank][k]
			}
			rhs[i] -= f * rhs[rank]
		}
		rank++
	}

	for i := rank; i < len(rows); i++ {
		if math.Abs(rhs[i]) > rankTolerance*1e3 {
			return nil, nil, ErrInfeasible
		}
	}
	return rows[:rank], rhs[:rank], nil
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
