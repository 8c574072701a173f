// Package solver designs blends: it finds component fractions that satisfy
// per-component bounds and a mixture viscosity constraint, optionally
// minimizing or maximizing one component or the mixture viscosity.
//
// The problem is linear in the Walther coordinate x = log10(log10(v + 0.7)),
// so it is assembled as a linear program (Build) and handed to a
// LinearSolver. Assembly and solving are kept apart so each can be tested
// on its own.
package solver

// Sense is an optimization direction
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// String returns the sense name
func (s Sense) String() string {
	if s == Maximize {
		return "max"
	}
	return "min"
}

// Role is the constraint placed on one component's fraction.
// It is one of Fixed, Free, Range or Objective.
type Role interface {
	componentRole()
}

// Fixed pins a component at a percentage of the blend
type Fixed struct {
	Percent float64
}

// Free lets a component take any share from 0 to 100%
type Free struct{}

// Range bounds a component's share, in percent
type Range struct {
	Min float64
	Max float64
}

// Objective lets a component float in [0,100]% and minimizes or maximizes its share
type Objective struct {
	Sense Sense
}

func (Fixed) componentRole()     {}
func (Free) componentRole()      {}
func (Range) componentRole()     {}
func (Objective) componentRole() {}

// MixtureRole is the constraint placed on the blend viscosity.
// It is one of MixtureFree, MixtureSetValue, MixtureRange or MixtureObjective.
type MixtureRole interface {
	mixtureRole()
}

// MixtureFree leaves the blend viscosity unconstrained
type MixtureFree struct{}

// MixtureSetValue requires the blend to reach an exact viscosity (mm²/s)
type MixtureSetValue struct {
	Viscosity float64
}

// MixtureRange keeps the blend viscosity within [Min, Max] mm²/s
type MixtureRange struct {
	Min float64
	Max float64
}

// MixtureObjective minimizes or maximizes the blend viscosity
type MixtureObjective struct {
	Sense Sense
}

func (MixtureFree) mixtureRole()      {}
func (MixtureSetValue) mixtureRole()  {}
func (MixtureRange) mixtureRole()     {}
func (MixtureObjective) mixtureRole() {}

// Component is one blend constituent
type Component struct {
	Viscosity float64
	Role      Role
}

// Request is a complete blend design problem. A nil Mixture means MixtureFree
// and a nil component Role means Free.
type Request struct {
	Components []Component
	Mixture    MixtureRole
}

// Result is a solved blend
type Result struct {
	// Percents holds each component's share in request order, rounded to 6 places
	Percents []float64 `json:"percents"`

	// Viscosity is the blend viscosity in mm²/s
	Viscosity float64 `json:"viscosity"`

	// Warnings reports numerical cleanup applied to the solution
	Warnings []string `json:"warnings,omitempty"`
}

// Fractions returns the shares keyed by component index, as reported by the API.
func (r *Result) Fractions() map[int]float64 {
	out := make(map[int]float64, len(r.Percents))
	for i, p := range r.Percents {
		out[i] = p
	}
	return out
}
