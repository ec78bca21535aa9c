package mines

import (
	"hash/maphash"
	"math/rand/v2"
	"sync"
)

var (
	defaultRandMu sync.Mutex
	defaultRand   = NewRand()
)

// NewRand returns a PCG generator seeded from the runtime's hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(),
		new(maphash.Hash).Sum64(),
	))
}

func iif[T any](condition bool, valueIfTrue, valueIfFalse T) T {
	if condition {
		return valueIfTrue
	} else {
		return valueIfFalse
	}
}
