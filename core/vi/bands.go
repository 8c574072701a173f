package vi

import "math"

// Band identifies one of the empirical curve fits to the ASTM D2270 tables,
// selected by the 100 °C viscosity Y.
type Band int

const (
	// BandLow covers Y < 2 and uses the extrapolation formula instead of a(Y), b(Y)
	BandLow Band = iota
	Band2To4
	Band4To6_1
	Band6_1To7_2
	Band7_2To12_4
	Band12_4To70
	BandAbove70
)

// bandSpec is a half-open interval [lower, upper) of Y with its reference functions.
// a(Y) is the 40 °C viscosity of the VI 0 reference oil; b(Y) is the difference
// between the VI 0 and VI 100 references.
type bandSpec struct {
	band  Band
	lower float64
	upper float64
	ab    func(y float64) (a, b float64)
}

var bands = []bandSpec{
	{Band2To4, 2, 4, func(y float64) (float64, float64) {
		a := 0.827*y*y + 1.632*y - 0.181
		b := 0.3094*y*y + 0.182*y
		return a, b
	}},
	{Band4To6_1, 4, 6.1, func(y float64) (float64, float64) {
		s := math.Sqrt(y)
		a := -2.6758*y*y + 96.671*y - 269.664*s + 215.025
		b := -7.1955*y*y + 241.992*y - 725.478*s + 603.888
		return a, b
	}},
	{Band6_1To7_2, 6.1, 7.2, func(y float64) (float64, float64) {
		a := 2.32 * math.Pow(y, 1.5626)
		b := 2.838*y*y - 27.35*y + 81.83
		return a, b
	}},
	{Band7_2To12_4, 7.2, 12.4, func(y float64) (float64, float64) {
		a := 0.1922*y*y + 8.25*y - 18.728
		b := 0.5463*y*y + 2.442*y - 14.16
		return a, b
	}},
	{Band12_4To70, 12.4, 70, func(y float64) (float64, float64) {
		a := 1795.2/(y*y) + 0.1818*y*y + 10.357*y - 54.547
		b := 0.6995*y*y - 1.19*y + 7.6
		return a, b
	}},
	{BandAbove70, 70, math.Inf(1), func(y float64) (float64, float64) {
		b := 0.666904*y*y + 2.8238*y - 119.298
		a0 := 0.835313*y*y + 14.6731*y - 216.246
		return a0 - b, b
	}},
}

// BandFor returns the band that applies to a 100 °C viscosity.
func BandFor(v100 float64) Band {
	for _, s := range bands {
		if v100 >= s.lower && v100 < s.upper {
			return s.band
		}
	}
	return BandLow
}

// String returns the band's interval
func (b Band) String() string {
	switch b {
	case BandLow:
		return "(0,2)"
	case Band2To4:
		return "[2,4)"
	case Band4To6_1:
		return "[4,6.1)"
	case Band6_1To7_2:
		return "[6.1,7.2)"
	case Band7_2To12_4:
		return "[7.2,12.4)"
	case Band12_4To70:
		return "[12.4,70)"
	case BandAbove70:
		return "[70,inf)"
	default:
		return "unknown"
	}
}

// reference evaluates a(Y) and b(Y) for the band; ok is false for BandLow.
func (b Band) reference(y float64) (a, bb float64, ok bool) {
	for _, s := range bands {
		if s.band == b {
			a, bb = s.ab(y)
			return a, bb, true
		}
	}
	return 0, 0, false
}
