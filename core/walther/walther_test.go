package walther

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "viscolab/internal/errors"
)

func TestForwardInverseRoundTrip(t *testing.T) {
	for _, v := range []float64{0.31, 0.5, 1, 2.5, 10, 46, 220, 1500, 1e5} {
		x, err := Forward(v)
		require.NoError(t, err)
		got := Inverse(x)
		assert.InEpsilon(t, v, got, 1e-9, "v=%g", v)
	}
}

func TestForwardDomain(t *testing.T) {
	for _, v := range []float64{0.3, 0.1, 0, -0.5, -0.7, -3, math.NaN(), math.Inf(1)} {
		_, err := Forward(v)
		require.Error(t, err, "v=%g", v)
		assert.True(t, verrors.IsType(err, verrors.TypeDomain))
	}
}

func TestInverseOverflowIsInfinite(t *testing.T) {
	assert.True(t, math.IsInf(Inverse(5), 1))
}

func TestFitReproducesCalibrationPoints(t *testing.T) {
	p1 := Point{Viscosity: 68, Temperature: 40}
	p2 := Point{Viscosity: 8.6, Temperature: 100}

	params, err := Fit(p1, p2)
	require.NoError(t, err)
	assert.Greater(t, params.Slope, 0.0)

	v1, err := params.At(40)
	require.NoError(t, err)
	assert.InEpsilon(t, 68.0, v1, 1e-9)

	v2, err := params.At(100)
	require.NoError(t, err)
	assert.InEpsilon(t, 8.6, v2, 1e-9)

	// viscosity falls with temperature
	v70, err := params.At(70)
	require.NoError(t, err)
	assert.Less(t, v70, v1)
	assert.Greater(t, v70, v2)
}

func TestFitDegenerateTemperatures(t *testing.T) {
	params, err := Fit(Point{Viscosity: 32, Temperature: 40}, Point{Viscosity: 50, Temperature: 40})
	require.NoError(t, err)
	assert.Equal(t, 0.0, params.Slope)
	assert.InDelta(t, MustForward(32), params.Intercept, 1e-15)
}

func TestFitRejectsInvalidPoints(t *testing.T) {
	_, err := Fit(Point{Viscosity: 0.2, Temperature: 40}, Point{Viscosity: 10, Temperature: 100})
	assert.True(t, verrors.IsType(err, verrors.TypeDomain))

	_, err = Fit(Point{Viscosity: 20, Temperature: -300}, Point{Viscosity: 10, Temperature: 100})
	assert.True(t, verrors.IsType(err, verrors.TypeInput))
}

func TestDefaultTable(t *testing.T) {
	params, err := Fit(Point{Viscosity: 100, Temperature: 40}, Point{Viscosity: 11, Temperature: 100})
	require.NoError(t, err)

	rows, err := params.DefaultTable()
	require.NoError(t, err)
	require.Len(t, rows, 13)
	assert.Equal(t, -20.0, rows[0].Temperature)
	assert.Equal(t, 100.0, rows[12].Temperature)
	assert.InEpsilon(t, 100.0, rows[6].Viscosity, 1e-9)
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i].Viscosity, rows[i-1].Viscosity)
	}
}

func TestTableRejectsBadRange(t *testing.T) {
	params := Params{Slope: 3.5, Intercept: 9}
	_, err := params.Table(0, 100, 0)
	assert.True(t, verrors.IsType(err, verrors.TypeInput))
	_, err = params.Table(100, 0, 10)
	assert.True(t, verrors.IsType(err, verrors.TypeInput))

	rows, err := params.Table(0, 25, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
