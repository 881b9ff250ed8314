package logger

import "go.uber.org/zap/zapcore"

// Verbosity is counted from repeated -v flags.
const (
	VerbosityUser  = 0 // diagnostics and written files only
	VerbosityInfo  = 1 // -v: run summaries, watch events
	VerbosityDebug = 2 // -vv: per-package results, excluded files, config
	VerbosityTrace = 3 // -vvv: every lowered factory
)

var verbosityNames = [...]string{"User", "Info (-v)", "Debug (-vv)", "Trace (-vvv)"}

// VerbosityToLevel maps a -v count to the zap level it enables. Trace has
// no zap level of its own; it is Debug plus the ShouldLogTrace checks.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch clamp(verbosity) {
	case VerbosityUser:
		return zapcore.WarnLevel
	case VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace reports whether -vvv or more was given.
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// LevelName names a verbosity for log output.
func LevelName(verbosity int) string {
	return verbosityNames[clamp(verbosity)]
}

func clamp(verbosity int) int {
	switch {
	case verbosity < VerbosityUser:
		return VerbosityUser
	case verbosity > VerbosityTrace:
		return VerbosityTrace
	}
	return verbosity
}
