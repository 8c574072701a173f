package output

import (
	"fmt"
	"math"

	"viscolab/core/mixture"
	"viscolab/core/precision"
	"viscolab/core/solver"
	"viscolab/core/vi"
	"viscolab/core/walther"
)

// Report is a result that can be rendered by any Formatter.
// The JSON form is the value itself; Lines is the human form.
type Report interface {
	// Title is the heading of the CLI table
	Title() string

	// Lines are the label/value rows of the CLI table
	Lines() []Line
}

// Line is one row of a CLI table. A line with an empty Label is a separator.
type Line struct {
	Label  string
	Value  string
	Nested bool
}

func separator() Line { return Line{} }

// finite returns nil for values JSON cannot carry
func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func number(x *float64, format string) string {
	if x == nil {
		return "undefined"
	}
	return fmt.Sprintf(format, *x)
}

// TableRow is a table entry whose viscosity is null when it overflows
type TableRow struct {
	Temperature float64  `json:"temperature"`
	Viscosity   *float64 `json:"viscosity"`
}

// Calibration reports a Walther fit
type Calibration struct {
	Slope           float64    `json:"slope"`
	Intercept       float64    `json:"intercept"`
	Table           []TableRow `json:"table"`
	Target          *float64   `json:"-"`
	TargetViscosity *float64   `json:"targetViscosity,omitempty"`
}

// NewCalibration builds the report for a fit, its table and an optional
// evaluation at target °C.
func NewCalibration(p walther.Params, rows []walther.TableRow, target *float64) (*Calibration, error) {
	c := &Calibration{
		Slope:     p.Slope,
		Intercept: p.Intercept,
		Table:     make([]TableRow, len(rows)),
	}
	for i, r := range rows {
		c.Table[i] = TableRow{Temperature: r.Temperature, Viscosity: finite(r.Viscosity)}
	}
	if target != nil {
		v, err := p.At(*target)
		if err != nil {
			return nil, err
		}
		t := *target
		c.Target = &t
		c.TargetViscosity = finite(v)
	}
	return c, nil
}

// Title implements Report
func (c *Calibration) Title() string { return "WALTHER VISCOSITY-TEMPERATURE FIT" }

// Lines implements Report
func (c *Calibration) Lines() []Line {
	lines := []Line{
		{Label: "Slope", Value: fmt.Sprintf("%.6f", c.Slope)},
		{Label: "Intercept", Value: fmt.Sprintf("%.6f", c.Intercept)},
		separator(),
	}
	for _, r := range c.Table {
		lines = append(lines, Line{
			Label:  fmt.Sprintf("%g °C", r.Temperature),
			Value:  number(r.Viscosity, "%.2f mm²/s"),
			Nested: true,
		})
	}
	if c.Target != nil {
		lines = append(lines, separator(), Line{
			Label: fmt.Sprintf("Viscosity at %g °C", *c.Target),
			Value: number(c.TargetViscosity, "%.2f mm²/s"),
		})
	}
	return lines
}

// Index reports a viscosity index. VI is null when undefined and the
// reference viscosities are null when the fit overflows.
type Index struct {
	V40  *float64 `json:"v40"`
	V100 *float64 `json:"v100"`
	VI   *float64 `json:"vi"`
	Band string   `json:"-"`
}

// NewIndex builds the report for an index computation
func NewIndex(r vi.Result) *Index {
	idx := &Index{V40: finite(r.V40), V100: finite(r.V100), Band: r.Band.String()}
	if r.Defined() {
		idx.VI = finite(r.VI)
	}
	return idx
}

// Title implements Report
func (i *Index) Title() string { return "VISCOSITY INDEX (ASTM D2270)" }

// Lines implements Report
func (i *Index) Lines() []Line {
	return []Line{
		{Label: "Viscosity at 40 °C", Value: number(i.V40, "%.2f mm²/s")},
		{Label: "Viscosity at 100 °C", Value: number(i.V100, "%.2f mm²/s")},
		{Label: "Band (100 °C viscosity)", Value: i.Band, Nested: true},
		separator(),
		{Label: "VISCOSITY INDEX", Value: number(i.VI, "%.1f")},
	}
}

// Blend reports a forward mixture computation
type Blend struct {
	Components []mixture.Share `json:"-"`
	Viscosity  float64         `json:"viscosity"`
}

// Title implements Report
func (b *Blend) Title() string { return "MIXTURE VISCOSITY" }

// Lines implements Report
func (b *Blend) Lines() []Line {
	lines := make([]Line, 0, len(b.Components)+2)
	for i, s := range b.Components {
		lines = append(lines, Line{
			Label: fmt.Sprintf("Component %d (%.2f mm²/s)", i+1, s.Viscosity),
			Value: fmt.Sprintf("%.2f %%", s.Percent),
		})
	}
	return append(lines, separator(), Line{Label: "BLEND VISCOSITY", Value: fmt.Sprintf("%.2f mm²/s", b.Viscosity)})
}

// TwoComponent reports the proportions of two bases
type TwoComponent struct {
	Target   float64         `json:"-"`
	BaseA    float64         `json:"-"`
	BaseB    float64         `json:"-"`
	Known    []mixture.Share `json:"-"`
	PercentA float64         `json:"percentA"`
	PercentB float64         `json:"percentB"`
}

// NewTwoComponent builds the report for an inverse two-base solve
func NewTwoComponent(target, baseA, baseB float64, known []mixture.Share, r mixture.TwoResult) *TwoComponent {
	return &TwoComponent{
		Target:   target,
		BaseA:    baseA,
		BaseB:    baseB,
		Known:    known,
		PercentA: r.PercentA,
		PercentB: r.PercentB,
	}
}

// Title implements Report
func (t *TwoComponent) Title() string { return "TWO-BASE BLEND" }

// Lines implements Report
func (t *TwoComponent) Lines() []Line {
	lines := []Line{{Label: "Target viscosity", Value: fmt.Sprintf("%.2f mm²/s", t.Target)}}
	for i, k := range t.Known {
		lines = append(lines, Line{
			Label:  fmt.Sprintf("Known %d (%.2f mm²/s)", i+1, k.Viscosity),
			Value:  fmt.Sprintf("%.2f %%", k.Percent),
			Nested: true,
		})
	}
	return append(lines,
		separator(),
		Line{Label: fmt.Sprintf("Base A (%.2f mm²/s)", t.BaseA), Value: fmt.Sprintf("%.4f %%", t.PercentA)},
		Line{Label: fmt.Sprintf("Base B (%.2f mm²/s)", t.BaseB), Value: fmt.Sprintf("%.4f %%", t.PercentB)},
	)
}

// Solution reports a general solver result. Fractions are percentages keyed
// by component index.
type Solution struct {
	Name       string          `json:"name,omitempty"`
	Components []string        `json:"components,omitempty"`
	Fractions  map[int]float64 `json:"fractions"`
	Viscosity  float64         `json:"viscosity"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// NewSolution builds the report for a solved blend. names may be nil.
func NewSolution(name string, names []string, r *solver.Result) *Solution {
	return &Solution{
		Name:       name,
		Components: names,
		Fractions:  r.Fractions(),
		Viscosity:  r.Viscosity,
		Warnings:   r.Warnings,
	}
}

// Title implements Report
func (s *Solution) Title() string {
	if s.Name != "" {
		return "BLEND DESIGN: " + s.Name
	}
	return "BLEND DESIGN"
}

// Lines implements Report
func (s *Solution) Lines() []Line {
	var lines []Line
	for _, i := range precision.SortedKeys(s.Fractions) {
		label := fmt.Sprintf("Component %d", i+1)
		if i < len(s.Components) && s.Components[i] != "" {
			label = s.Components[i]
		}
		lines = append(lines, Line{Label: label, Value: fmt.Sprintf("%.6f %%", s.Fractions[i])})
	}
	lines = append(lines, separator(), Line{Label: "BLEND VISCOSITY", Value: fmt.Sprintf("%.4f mm²/s", s.Viscosity)})
	for _, w := range s.Warnings {
		lines = append(lines, Line{Label: "warning: " + w, Nested: true})
	}
	return lines
}
