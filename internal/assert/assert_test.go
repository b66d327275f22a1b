//go:build !release

package assert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThatPasses(t *testing.T) {
	assert.NotPanics(t, func() {
		ok := That(true, "never shown")
		assert.True(t, ok)
	})
}

func TestThatPanicsInDev(t *testing.T) {
	assert.PanicsWithValue(t, "assertion failed: missing grid 3", func() {
		That(false, "missing grid %d", 3)
	})
}

func TestFail(t *testing.T) {
	assert.Panics(t, func() { Fail("boom") })
}
