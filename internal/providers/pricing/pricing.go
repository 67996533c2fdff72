// Package pricing supplies base price estimates for upstreams that do not return real fares.
package pricing

import (
	"math"
	"math/rand/v2"
)

// Estimator produces a base price in [floor, floor+spread).
type Estimator interface {
	Estimate(floor, spread int) int
}

// Random draws estimates uniformly at random.
type Random struct{}

// Estimate implements Estimator.
func (Random) Estimate(floor, spread int) int {
	if spread <= 0 {
		return floor
	}
	return floor + rand.IntN(spread)
}

// Constant always returns the same estimate, ignoring the range.
type Constant int

// Estimate implements Estimator.
func (c Constant) Estimate(_, _ int) int {
	return int(c)
}

// Scale applies a class multiplier and rounds to whole currency units.
func Scale(base int, multiplier float64) int {
	return int(math.Round(float64(base) * multiplier))
}
