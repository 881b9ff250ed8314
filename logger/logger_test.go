package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	tests := []struct {
		name      string
		json      bool
		verbosity int
		enabled   zapcore.Level
		disabled  zapcore.Level
	}{
		{"console quiet", false, VerbosityUser, zapcore.WarnLevel, zapcore.InfoLevel},
		{"console info", false, VerbosityInfo, zapcore.InfoLevel, zapcore.DebugLevel},
		{"json debug", true, VerbosityDebug, zapcore.DebugLevel, zapcore.DebugLevel - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Initialize(tt.json, tt.verbosity))
			assert.Equal(t, tt.json, JSONOutput)
			assert.Equal(t, tt.verbosity, Verbosity)

			core := Logger.Desugar().Core()
			assert.True(t, core.Enabled(tt.enabled))
			assert.False(t, core.Enabled(tt.disabled))
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
	assert.True(t, ShouldLogTrace(VerbosityTrace))
	assert.False(t, ShouldLogTrace(VerbosityDebug))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "User", LevelName(-2))
	assert.Equal(t, "Trace (-vvv)", LevelName(9))
}

func TestHelpersUseGlobalLogger(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))

	Infow("wrote builders", FieldPackage, "example.com/x", FieldBuilders, 2)
	Warnw("stale output removed", FieldFile, "x/ctorgen_builders.go")
	Debugw("plan", FieldFactory, "NewServer")
	Errorw("load failed", FieldError, "boom")

	require.Equal(t, 4, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "wrote builders", first.Message)
	assert.Equal(t, int64(2), first.ContextMap()[FieldBuilders])
}

func TestNamedWithZaptest(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	Set(zaptest.NewLogger(t))
	Named("generate").Infow("scanning", FieldPattern, "./...")
	Cleanup()
}
