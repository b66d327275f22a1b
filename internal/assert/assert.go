// Package assert checks internal invariants. Development builds panic on a
// failed check; builds tagged "release" log the failure and let the caller
// continue with a zero default.
package assert

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "assert",
})

// SetLogger replaces the logger used for failures in release builds.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// That reports a failure when cond is false. It returns cond so release
// builds can branch on it.
func That(cond bool, format string, args ...any) bool {
	if !cond {
		fail(fmt.Sprintf(format, args...))
	}
	return cond
}

// Fail reports an unconditional failure.
func Fail(format string, args ...any) {
	fail(fmt.Sprintf(format, args...))
}
