// Package diag carries located generation diagnostics.
//
// Every problem ctorgen finds in user source (a malformed directive, a name
// that cannot be derived, two builders claiming one identifier) is reported
// as an *Error pointing at the offending declaration. Diagnostics are
// collected by a Handler so that one bad declaration does not hide the
// others in the same package.
package diag

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/pterm/pterm"
)

// Severity indicates the severity level of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"   // Declaration gets no builder
	SeverityWarning Severity = "warning" // Builder still generated
)

// Kind categorizes diagnostics for programmatic handling
type Kind string

const (
	KindConfig    Kind = "config"    // Malformed directive or option value
	KindNaming    Kind = "naming"    // Entry/exit name cannot be derived or is invalid
	KindCollision Kind = "collision" // Two declarations claim the same identifier
	KindExtract   Kind = "extract"   // Declaration shape is unsupported
	KindLoad      Kind = "load"      // Package could not be loaded or parsed
)

// Format selects how an Error renders itself
type Format int

const (
	FormatPlain Format = iota
	FormatTerminal
)

// Error is a diagnostic tied to a source position.
type Error struct {
	Err         error          // Underlying error
	Pos         token.Position // Location of the offending declaration
	Kind        Kind
	Severity    Severity
	Message     string
	Suggestions []string
}

// New creates an error-severity diagnostic at pos.
func New(pos token.Position, kind Kind, message string) *Error {
	return &Error{
		Pos:      pos,
		Kind:     kind,
		Severity: SeverityError,
		Message:  message,
	}
}

// Newf creates an error-severity diagnostic with a formatted message.
func Newf(pos token.Position, kind Kind, format string, args ...interface{}) *Error {
	return New(pos, kind, fmt.Sprintf(format, args...))
}

// Error implements error using the plain rendering, which is what go vet
// style tooling and editors parse.
func (e *Error) Error() string {
	return e.FormatError(FormatPlain)
}

// Unwrap for errors.Is/As compatibility
func (e *Error) Unwrap() error {
	return e.Err
}

// GetPosition returns the source position of the diagnostic
func (e *Error) GetPosition() token.Position {
	return e.Pos
}

// IsWarning returns true if this diagnostic has warning severity
func (e *Error) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// FormatError renders the diagnostic for logs (plain) or a terminal (colored).
func (e *Error) FormatError(f Format) string {
	if f == FormatTerminal {
		return e.formatTerminal()
	}
	return e.formatPlain()
}

func (e *Error) formatPlain() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(e.Pos.String())
		b.WriteString(": ")
	}
	if e.Severity == SeverityWarning {
		b.WriteString("warning: ")
	}
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Suggestions, "; "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) formatTerminal() string {
	var b strings.Builder
	if e.Pos.IsValid() {
		b.WriteString(pterm.Bold.Sprint(e.Pos.String()))
		b.WriteString(": ")
	}
	switch e.Severity {
	case SeverityWarning:
		b.WriteString(pterm.Yellow("warning: "))
	default:
		b.WriteString(pterm.Red("error: "))
	}
	b.WriteString(e.Message)
	b.WriteString(pterm.Gray(fmt.Sprintf(" [%s]", e.Kind)))
	for _, s := range e.Suggestions {
		b.WriteString("\n  ")
		b.WriteString(pterm.Green("hint: "))
		b.WriteString(s)
	}
	return b.String()
}

// WithSuggestion adds a suggestion for fixing the diagnostic
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSeverity sets the diagnostic severity
func (e *Error) WithSeverity(sev Severity) *Error {
	e.Severity = sev
	return e
}

// WithUnderlying sets the underlying error
func (e *Error) WithUnderlying(err error) *Error {
	e.Err = err
	return e
}
