// Package testutil provides shared helpers for package tests.
package testutil

import (
	"github.com/rs/zerolog"
)

// NopLogger returns a no-op logger for tests that don't need output.
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}
