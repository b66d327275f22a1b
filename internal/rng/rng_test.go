package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulberry32Deterministic(t *testing.T) {
	a := NewMulberry32(12345)
	b := NewMulberry32(12345)

	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Uint32(), b.Uint32(), "diverged at draw %d", i)
	}
}

func TestMulberry32Range(t *testing.T) {
	m := NewMulberry32(7)
	for i := 0; i < 10000; i++ {
		f := m.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestMulberry32SeedsDiffer(t *testing.T) {
	a := NewMulberry32(1)
	b := NewMulberry32(2)

	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestNewPicksSource(t *testing.T) {
	_, ok := New(nil).(ambient)
	assert.True(t, ok, "nil seed should use the ambient source")

	_, ok = New(Seed(3)).(*Mulberry32)
	assert.True(t, ok, "seeded source should be Mulberry32")
}

func TestIntn(t *testing.T) {
	m := NewMulberry32(99)
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		v := Intn(m, 4)
		require.True(t, v >= 0 && v < 4)
		seen[v] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 0, Intn(m, 0))
}
