// Package precision provides decimal rounding and stable ordering for reported values.
// Engine math stays in float64; only values handed to callers pass through here.
package precision

import (
	"math"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Places used for reported quantities
const (
	VIPlaces      int32 = 1
	PercentPlaces int32 = 6
)

// exactDigits is enough significant digits to spell out any float64 exactly
const exactDigits = 767

// Round rounds the exact binary value of x to the given number of decimal
// places, breaking exact ties to even. NaN and infinities are returned unchanged.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(x, 'e', exactDigits, 64))
	if err != nil {
		return x
	}
	return d.RoundBank(places).InexactFloat64()
}

// Percent converts a fraction in [0,1] to a percentage rounded to PercentPlaces.
func Percent(fraction float64) float64 {
	return Round(fraction*100, PercentPlaces)
}

// Fraction converts a percentage to a fraction.
func Fraction(percent float64) float64 {
	return percent / 100.0
}

// SortedKeys returns map keys in ascending order
func SortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
