package core

import "testing"

// fixedRandom replays a fixed sequence of floats.
type fixedRandom struct {
	vals []float64
	i    int
}

func (f *fixedRandom) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func (f *fixedRandom) Intn(n int) int {
	return int(f.Float64() * float64(n))
}

func TestRandBetween(t *testing.T) {
	r := &fixedRandom{vals: []float64{0, 0.5, 0.999}}

	if got := RandBetween(r, 10, 20); got != 10 {
		t.Errorf("RandBetween low = %f, expected 10", got)
	}
	if got := RandBetween(r, 10, 20); got != 15 {
		t.Errorf("RandBetween mid = %f, expected 15", got)
	}
	if got := RandBetween(r, 10, 20); got < 19.9 || got > 20 {
		t.Errorf("RandBetween high = %f, expected ~20", got)
	}

	// Degenerate range returns lo without consuming
	if got := RandBetween(r, 5, 5); got != 5 {
		t.Errorf("RandBetween(5, 5) = %f, expected 5", got)
	}
}

func TestRandIntBetweenInclusive(t *testing.T) {
	r := NewRandom(7)
	seenLo, seenHi := false, false
	for i := 0; i < 1000; i++ {
		v := RandIntBetween(r, 3, 6)
		if v < 3 || v > 6 {
			t.Fatalf("RandIntBetween out of range: %d", v)
		}
		seenLo = seenLo || v == 3
		seenHi = seenHi || v == 6
	}
	if !seenLo || !seenHi {
		t.Error("RandIntBetween should reach both bounds")
	}
}

func TestChance(t *testing.T) {
	r := &fixedRandom{vals: []float64{0.2, 0.8}}
	if !Chance(r, 0.5) {
		t.Error("0.2 < 0.5 should succeed")
	}
	if Chance(r, 0.5) {
		t.Error("0.8 < 0.5 should fail")
	}
}
