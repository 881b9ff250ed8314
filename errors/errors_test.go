package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(New("original"), "package %s", "example.com/pkg")
	assert.Equal(t, "package example.com/pkg: original", wrapped.Error())
}

type locatedError struct {
	msg string
}

func (e *locatedError) Error() string {
	return e.msg
}

func TestAs(t *testing.T) {
	wrapped := Wrap(&locatedError{msg: "a.go:1:1: bad"}, "generate")

	var target *locatedError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "a.go:1:1: bad", target.msg)
}

func TestWithHint(t *testing.T) {
	err := WithHint(ErrOutOfDate, "run 'ctorgen generate'")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "run 'ctorgen generate'", hints[0])
	assert.True(t, IsOutOfDateError(err))
}

func TestWrapDiagnostics(t *testing.T) {
	err := WrapDiagnostics(3)

	assert.True(t, IsDiagnosticsError(err))
	assert.False(t, IsOutOfDateError(err))
	assert.Equal(t, "3 diagnostic(s): generation reported diagnostics", err.Error())
}

func TestSentinelHelpersNil(t *testing.T) {
	assert.False(t, IsDiagnosticsError(nil))
	assert.False(t, IsOutOfDateError(nil))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func ExampleWrap() {
	err := Wrap(ErrNoPackages, "load ./internal/...")
	fmt.Println(err)
	// Output: load ./internal/...: no packages matched
}
