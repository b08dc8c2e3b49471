package sim

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness driving the probabilistic
// transition gates. *math/rand.Rand satisfies it; tests inject
// deterministic sources to pin down step outcomes.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0)
	Float64() float64
	// Intn returns a value in [0, n)
	Intn(n int) int
}

// NewRand returns the production randomness source, seeded from the
// wall clock
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
