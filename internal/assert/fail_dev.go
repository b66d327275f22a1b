//go:build !release

package assert

// Enabled reports whether failures panic.
const Enabled = true

func fail(msg string) {
	panic("assertion failed: " + msg)
}
