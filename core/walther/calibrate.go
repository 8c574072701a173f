package walther

import (
	"math"

	verrors "viscolab/internal/errors"
)

// degenerateSpan is the log-temperature gap below which two points count as one temperature
const degenerateSpan = 1e-12

// Point is a measured viscosity (mm²/s) at a temperature (°C)
type Point struct {
	Viscosity   float64 `json:"viscosity"`
	Temperature float64 `json:"temperature"`
}

// Params are the fitted Walther slope and intercept
type Params struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// TableRow is one line of a viscosity-temperature table
type TableRow struct {
	Temperature float64 `json:"temperature"`
	Viscosity   float64 `json:"viscosity"`
}

// Fit calibrates the correlation through two points. When both temperatures
// coincide the slope is 0 and the intercept is the first point's coordinate.
func Fit(p1, p2 Point) (Params, error) {
	x1, err := Forward(p1.Viscosity)
	if err != nil {
		return Params{}, err
	}
	x2, err := Forward(p2.Viscosity)
	if err != nil {
		return Params{}, err
	}
	y1, err := LogTemperature(p1.Temperature)
	if err != nil {
		return Params{}, err
	}
	y2, err := LogTemperature(p2.Temperature)
	if err != nil {
		return Params{}, err
	}

	slope := 0.0
	if math.Abs(y2-y1) >= degenerateSpan {
		slope = (x1 - x2) / (y2 - y1)
	}
	return Params{
		Slope:     slope,
		Intercept: x1 + slope*y1,
	}, nil
}

// At evaluates the fitted viscosity at temp (°C).
func (p Params) At(temp float64) (float64, error) {
	y, err := LogTemperature(temp)
	if err != nil {
		return 0, err
	}
	return Inverse(p.Intercept - p.Slope*y), nil
}

// Table evaluates the fit from `from` to `to` inclusive in increments of step.
func (p Params) Table(from, to, step float64) ([]TableRow, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, verrors.Input("table step must be a positive number")
	}
	if from > to {
		return nil, verrors.Input("table start must not exceed table end")
	}

	n := int(math.Floor((to-from)/step+1e-9)) + 1
	rows := make([]TableRow, 0, n)
	for i := 0; i < n; i++ {
		t := from + float64(i)*step
		v, err := p.At(t)
		if err != nil {
			return nil, err
		}
		rows = append(rows, TableRow{Temperature: t, Viscosity: v})
	}
	return rows, nil
}

// DefaultTable is the -20 °C to 100 °C table in 10 °C steps.
func (p Params) DefaultTable() ([]TableRow, error) {
	return p.Table(-20, 100, 10)
}
