package rng

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceDeterministic(t *testing.T) {
	a := New(7, 11)
	b := New(7, 11)
	for range 100 {
		assert.Equal(t, a.Uniform(0.7, 1.3), b.Uniform(0.7, 1.3))
	}
}

func TestSourceUniformRange(t *testing.T) {
	s := New(1, 2)
	for range 10_000 {
		v := s.Uniform(0.75, 1.25)
		require.GreaterOrEqual(t, v, 0.75)
		require.Less(t, v, 1.25)
	}
}

func TestSourceUniformInverted(t *testing.T) {
	s := New(1, 2)
	assert.Panics(t, func() { s.Uniform(1, 0) })
}

func TestRound(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{in: 0.5, expected: 0},
		{in: 1.5, expected: 2},
		{in: 2.5, expected: 2},
		{in: 2.51, expected: 3},
		{in: 14.9, expected: 15},
		{in: -0.4, expected: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.expected, Round(tt.in))
		})
	}
}

func TestTrunc(t *testing.T) {
	assert.Equal(t, 80, Trunc(80.99))
	assert.Equal(t, 0, Trunc(0.2))
	assert.Equal(t, -1, Trunc(-1.7))
}

func TestLCGSequence(t *testing.T) {
	g, err := NewLCGGenerator(5, 3, 16, 1)
	require.NoError(t, err)

	// 5*1+3=8, 5*8+3=43%16=11, 5*11+3=58%16=10, 5*10+3=53%16=5
	assert.Equal(t, []uint64{8, 11, 10, 5}, g.Numbers(4))
}

func TestLCGNormalized(t *testing.T) {
	g, err := NewLCGGenerator(5, 3, 16, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 11.0 / 16}, g.NormalizedNumbers(2))
}

func TestLCGLargeModulusDoesNotOverflow(t *testing.T) {
	const m = 1 << 63
	g, err := NewLCGGenerator(m-1, m-1, m, m-1)
	require.NoError(t, err)
	for range 1000 {
		require.Less(t, g.Next(), uint64(m))
	}
}

func TestLCGValidation(t *testing.T) {
	tests := []struct {
		name          string
		a, c, m, seed uint64
	}{
		{name: "zero modulus", a: 1, c: 1, m: 0, seed: 0},
		{name: "seed too large", a: 1, c: 1, m: 10, seed: 10},
		{name: "multiplier too large", a: 10, c: 1, m: 10, seed: 0},
		{name: "increment too large", a: 1, c: 11, m: 10, seed: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLCGGenerator(tt.a, tt.c, tt.m, tt.seed)
			assert.Error(t, err)
		})
	}
}

func TestNewLCGSource(t *testing.T) {
	s, err := NewLCG(1103515245, 12345, 1<<31, 42)
	require.NoError(t, err)
	seed, _ := s.Seeds()
	assert.Equal(t, uint64(42), seed)
	for range 1000 {
		v := s.Uniform(0, 1)
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}
