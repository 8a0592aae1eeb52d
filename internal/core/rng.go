package core

import (
	"math/rand/v2"
	"sync"
)

// Seeds draws fresh seeds for noise and simulations. Implementations must be
// safe for concurrent use since every task draws from its own goroutine.
type Seeds interface {
	// Seed returns a uniform value in [0, n].
	Seed(n int64) int64
}

// RNG is a thin convenience wrapper around math/rand/v2 for seed drawing.
type RNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Seed returns a uniform value in [0, n].
func (r *RNG) Seed(n int64) int64 {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Int64N(n + 1)
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}

// IntN returns a uniform value in [0, n).
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

type globalSeeds struct{}

func (globalSeeds) Seed(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return rand.Int64N(n + 1)
}

// RandomSeeds draws from the process-wide generator, independent of any
// world seed.
func RandomSeeds() Seeds { return globalSeeds{} }
