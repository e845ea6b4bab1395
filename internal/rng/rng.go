// Package rng holds the injectable randomness used by the generators.
package rng

import "math/rand/v2"

// Source is the subset of *rand.Rand the generators draw from.
// Every generation call receives its own Source; nothing reads global state.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// New returns a deterministic generator for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Between returns a uniform integer in [lo, hi]. hi < lo yields lo.
func Between(r Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Chance reports whether a uniform draw falls below p.
func Chance(r Source, p float64) bool {
	return r.Float64() < p
}
