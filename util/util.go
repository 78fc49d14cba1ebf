// Package util provides the seeded randomness helpers shared by tests and
// the demo driver.
package util

import "math/rand"

// RNG encapsulates a seeded random number generator.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec
		seed: seed,
	}
}

// Rand exposes the underlying generator.
func (r *RNG) Rand() *rand.Rand {
	return r.rand
}

// UniformRows generates rows of dim-dimensional samples drawn uniformly
// from [0, high) per dimension.
func (r *RNG) UniformRows(rows, dim int, high float64) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, dim)
		for j := range out[i] {
			out[i][j] = r.rand.Float64() * high
		}
	}
	return out
}
