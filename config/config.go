// Package config loads ctorgen.toml.
//
// Sources, lowest to highest precedence: built-in defaults, the project
// file (found by walking up from the working directory, or given
// explicitly), then CTORGEN_* environment variables where the dot of a key
// becomes an underscore (CTORGEN_GENERATE_JOBS=8).
package config

import (
	"fmt"
	"time"
)

// FileName is the project configuration file searched for by Load.
const FileName = "ctorgen.toml"

// Config represents the ctorgen configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate" toml:"generate"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch"`
}

// GenerateConfig configures builder generation
type GenerateConfig struct {
	Output     string   `mapstructure:"output" toml:"output"`           // Generated file name, one per package
	AutoDetect bool     `mapstructure:"auto_detect" toml:"auto_detect"` // Treat New/NewXxx functions as annotated
	WithInto   bool     `mapstructure:"with_into" toml:"with_into"`     // Default for the with_into directive option
	Exclude    []string `mapstructure:"exclude" toml:"exclude"`         // doublestar patterns matched against file paths
	Jobs       int      `mapstructure:"jobs" toml:"jobs"`               // Packages processed concurrently
	MinGo      string   `mapstructure:"min_go" toml:"min_go"`           // Minimum go directive of the module
}

// LogConfig configures log output
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // Quiet period before regenerating
}

// Debounce returns the debounce period as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Generate: {Output: %s, AutoDetect: %t, WithInto: %t, Jobs: %d, MinGo: %s}, Watch: {DebounceMS: %d}}",
		c.Generate.Output, c.Generate.AutoDetect, c.Generate.WithInto, c.Generate.Jobs, c.Generate.MinGo, c.Watch.DebounceMS)
}
