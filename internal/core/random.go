package core

import "math/rand"

// Random is the uniform randomness source consumed by generators and games.
// *rand.Rand satisfies it; tests may substitute scripted sources.
type Random interface {
	Float64() float64 // [0, 1)
	Intn(n int) int   // [0, n)
}

// NewRandom returns a Random seeded with seed.
func NewRandom(seed int64) Random {
	return rand.New(rand.NewSource(seed))
}

// RandBetween returns a uniform float64 in [lo, hi].
func RandBetween(r Random, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// RandIntBetween returns a uniform int in [lo, hi].
func RandIntBetween(r Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance reports whether a roll against probability p succeeds.
func Chance(r Random, p float64) bool {
	return r.Float64() < p
}
