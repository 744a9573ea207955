package sorting

import "math/rand/v2"

// Source is the randomness capability used by randomized sorters.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Shuffle(n int, swap func(i, j int))
}

// DefaultSeed seeds randomized sorters when no seed is configured.
const DefaultSeed uint64 = 0x5eed

// NewSource returns a deterministic PCG-backed source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
