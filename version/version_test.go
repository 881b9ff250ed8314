package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, CommitHash, info.CommitHash)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.NotEmpty(t, info.Formatter)
}

func TestModuleVersion(t *testing.T) {
	deps := []*debug.Module{
		{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
		{Path: FormatterModule, Version: "v0.40.0"},
	}
	assert.Equal(t, "v0.40.0", moduleVersion(deps, FormatterModule))
	assert.Equal(t, "", moduleVersion(deps, "golang.org/x/sync"))

	deps[1].Replace = &debug.Module{Path: "../tools", Version: "v0.40.1-local"}
	assert.Equal(t, "v0.40.1-local", moduleVersion(deps, FormatterModule))
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"dev", Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}, "ctorgen dev (commit dev, built unknown)"},
		{"tagged", Info{Version: "v0.4.1", CommitHash: "1a2b3c4d5e", BuildTime: "2026-10-01T12:00:00Z"}, "ctorgen v0.4.1 (commit 1a2b3c4d5e, built 2026-10-01T12:00:00Z)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "1a2b3c4", Info{CommitHash: "1a2b3c4d5e"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}
