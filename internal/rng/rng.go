// Package rng provides the deterministic pseudo-random stream used by the
// synthetic data generator and the pLTV trainer.
package rng

import "math"

// LCG constants (Park-Miller minimal standard generator).
const (
	multiplier = 16807
	modulus    = 2147483647
)

// Stream is a seedable linear congruential generator. A fixed seed yields a
// bit-for-bit reproducible sequence of draws. The generator and the model
// trainer each own an independent Stream so that changes to one never perturb
// the other.
type Stream struct {
	seed int64
}

// New creates a Stream from an integer seed. Seed 0 would collapse the LCG to
// a constant stream, so it is mapped to 1.
func New(seed int64) *Stream {
	s := seed % modulus
	if s <= 0 {
		s += modulus - 1
	}
	if s == 0 {
		s = 1
	}
	return &Stream{seed: s}
}

// Float64 returns the next uniform draw in [0, 1).
func (s *Stream) Float64() float64 {
	s.seed = (s.seed * multiplier) % modulus
	return float64(s.seed-1) / float64(modulus-1)
}

// IntRange returns a uniform integer in [min, max], inclusive on both ends.
func (s *Stream) IntRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return int(math.Floor(s.Float64()*float64(max-min+1))) + min
}

// Pick returns a uniformly chosen element of list. Panics on empty input; all
// callers draw from fixed non-empty tables.
func (s *Stream) Pick(list []string) string {
	return list[int(math.Floor(s.Float64()*float64(len(list))))]
}

// PickFloat returns a uniformly chosen element of a float table.
func (s *Stream) PickFloat(list []float64) float64 {
	return list[int(math.Floor(s.Float64()*float64(len(list))))]
}

// Normal returns a standard normal deviate via the Box-Muller transform.
// The first uniform is clamped away from zero to keep the log finite.
func (s *Stream) Normal() float64 {
	u1 := s.Float64()
	if u1 < 1e-12 {
		u1 = 1e-12
	}
	u2 := s.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Chance returns true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.Float64() < p
}

// ShuffleInts performs an in-place Fisher-Yates shuffle of idx.
func (s *Stream) ShuffleInts(idx []int) {
	for i := len(idx) - 1; i > 0; i-- {
		j := s.IntRange(0, i)
		idx[i], idx[j] = idx[j], idx[i]
	}
}
