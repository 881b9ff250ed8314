package logger

// Standard field names for consistent structured logging across ctorgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Packages and files
	FieldPackage = "package"
	FieldFile    = "file"
	FieldPattern = "pattern"
	FieldOutput  = "output"

	// Generation
	FieldFactory  = "factory"
	FieldBuilders = "builders"
	FieldDiags    = "diagnostics"
	FieldKind     = "kind"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Watch mode
	FieldEvent = "event"
	FieldRun   = "run"
)
