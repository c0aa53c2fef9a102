// Package rng supplies the uniform draws the shop economy runs on.
//
// A Source is not safe for concurrent use. Every simulation owns its own
// Source; sharing one between simulations needs external locking.
package rng

import (
	"math"
	"math/rand/v2"

	"github.com/tifye/shopsim/assert"
)

type Source struct {
	seed1 uint64
	seed2 uint64
	unit  func() float64
}

// New returns a PCG backed Source. Two sources created with the
// same seeds produce the same sequence of draws.
func New(seed1, seed2 uint64) *Source {
	rnd := rand.New(rand.NewPCG(seed1, seed2))
	return &Source{
		seed1: seed1,
		seed2: seed2,
		unit:  rnd.Float64,
	}
}

// NewRandom seeds a PCG Source from the global generator.
func NewRandom() *Source {
	return New(rand.Uint64(), rand.Uint64())
}

// NewLCG returns a Source whose unit draws are the normalized
// output of a linear congruential generator.
func NewLCG(multiplier, increment, modulus, seed uint64) (*Source, error) {
	lcg, err := NewLCGGenerator(multiplier, increment, modulus, seed)
	if err != nil {
		return nil, err
	}
	return &Source{
		seed1: seed,
		unit:  lcg.Normalized,
	}, nil
}

func (s *Source) Seeds() (uint64, uint64) {
	return s.seed1, s.seed2
}

// Uniform returns a draw in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	assert.Assert(hi >= lo, "uniform range is inverted")
	return lo + (hi-lo)*s.unit()
}

// Round rounds half to even, so 2.5 becomes 2 and 3.5 becomes 4.
func Round(x float64) int {
	return int(math.RoundToEven(x))
}

// Trunc drops the fractional part of x.
func Trunc(x float64) int {
	return int(math.Trunc(x))
}
