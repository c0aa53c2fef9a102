package rng

import (
	"fmt"
	"math/bits"
)

// LCG is the classic linear congruential generator
// x' = (a*x + c) mod m.
type LCG struct {
	a       uint64
	c       uint64
	m       uint64
	current uint64
}

func NewLCGGenerator(multiplier, increment, modulus, seed uint64) (*LCG, error) {
	if modulus == 0 {
		return nil, fmt.Errorf("modulus must be positive")
	}
	if seed >= modulus {
		return nil, fmt.Errorf("seed should satisfy 0 <= seed < modulus")
	}
	if multiplier >= modulus {
		return nil, fmt.Errorf("multiplier should satisfy 0 <= multiplier < modulus")
	}
	if increment >= modulus {
		return nil, fmt.Errorf("increment should satisfy 0 <= increment < modulus")
	}
	return &LCG{
		a:       multiplier,
		c:       increment,
		m:       modulus,
		current: seed,
	}, nil
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint64 {
	hi, lo := bits.Mul64(g.a, g.current)
	lo, carry := bits.Add64(lo, g.c, 0)
	hi += carry
	g.current = bits.Rem64(hi, lo, g.m)
	return g.current
}

// Normalized advances the generator and returns the new
// state scaled into [0, 1).
func (g *LCG) Normalized() float64 {
	return float64(g.Next()) / float64(g.m)
}

func (g *LCG) Numbers(count int) []uint64 {
	out := make([]uint64, count)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func (g *LCG) NormalizedNumbers(count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = g.Normalized()
	}
	return out
}
