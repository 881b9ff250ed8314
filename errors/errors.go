// Package errors provides error handling for ctorgen.
//
// This package re-exports the part of github.com/cockroachdb/errors ctorgen
// uses: wrapping with stack traces, and hints printed to the user on exit.
//
// Usage:
//
//	// Wrap with context
//	if err := os.WriteFile(path, src, 0o644); err != nil {
//	    return errors.Wrapf(err, "failed to write %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'ctorgen generate' to refresh builders")
//
// Located generation diagnostics live in the diag package; this package is
// for everything else (I/O, package loading, configuration).
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
)

// User-facing hints
var (
	WithHint    = crdb.WithHint
	GetAllHints = crdb.GetAllHints
)

// Error inspection
var (
	Is = crdb.Is
	As = crdb.As
)

// Sentinel errors returned by the generation driver.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNoPackages indicates the package patterns matched nothing
	ErrNoPackages = New("no packages matched")

	// ErrDiagnostics indicates generation reported at least one located diagnostic
	ErrDiagnostics = New("generation reported diagnostics")

	// ErrOutOfDate indicates a generated file on disk differs from a fresh generation
	ErrOutOfDate = New("generated builders are out of date")

	// ErrUnsupportedGo indicates the module's go directive predates generics
	ErrUnsupportedGo = New("unsupported go version")
)

// IsDiagnosticsError checks if an error is or wraps ErrDiagnostics
func IsDiagnosticsError(err error) bool {
	return err != nil && Is(err, ErrDiagnostics)
}

// IsOutOfDateError checks if an error is or wraps ErrOutOfDate
func IsOutOfDateError(err error) bool {
	return err != nil && Is(err, ErrOutOfDate)
}

// WrapDiagnostics wraps ErrDiagnostics with a count of reported diagnostics
func WrapDiagnostics(count int) error {
	return Wrapf(ErrDiagnostics, "%d diagnostic(s)", count)
}
