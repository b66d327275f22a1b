// Package rng provides the random sources used by the generators.
// Seeded sources are deterministic and independent of math/rand, so a fixed
// seed reproduces the same sequence on every platform and Go release.
package rng

import "math/rand/v2"

// Source produces floats in [0, 1).
type Source interface {
	Float64() float64
}

// Mulberry32 is a counter-based 32-bit generator.
// Each call advances the counter by a fixed odd constant and hashes it.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 creates a generator starting at the given seed.
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 returns the next 32 random bits.
func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6d2b79f5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns a float in [0, 1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / 4294967296.0
}

// ambient wraps the process-wide math/rand source.
type ambient struct{}

func (ambient) Float64() float64 { return rand.Float64() }

// Ambient returns a non-deterministic source.
func Ambient() Source {
	return ambient{}
}

// New returns a seeded Mulberry32 when seed is non-nil and the ambient source otherwise.
func New(seed *uint32) Source {
	if seed == nil {
		return Ambient()
	}
	return NewMulberry32(*seed)
}

// Seed is a convenience for taking the address of a literal seed.
func Seed(v uint32) *uint32 {
	return &v
}

// Intn returns an int in [0, n). Returns 0 when n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Chance returns true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
