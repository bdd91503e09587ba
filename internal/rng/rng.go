// Package rng provides the single pseudo-random source shared by every
// generation stage of a run.
//
// Reproducibility depends on two things: the source is seeded exactly once,
// upstream of the builder, and every consumer draws from it in a fixed order.
package rng

import "math/rand/v2"

// Source is the subset of *rand.Rand the generator draws from.
type Source interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
}

// New returns a PCG-backed source seeded with seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
