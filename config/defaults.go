package config

import "github.com/spf13/viper"

// Default values
const (
	DefaultOutput     = "ctorgen_builders.go"
	DefaultJobs       = 4
	DefaultMinGo      = "1.18" // first release with type parameters
	DefaultDebounceMS = 300
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generate.output", DefaultOutput)
	v.SetDefault("generate.auto_detect", false)
	v.SetDefault("generate.with_into", true)
	v.SetDefault("generate.exclude", []string{"**/testdata/**"})
	v.SetDefault("generate.jobs", DefaultJobs)
	v.SetDefault("generate.min_go", DefaultMinGo)

	v.SetDefault("log.json", false)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// Default returns the configuration with every default applied and no
// file or environment sources.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode.
		panic(err)
	}
	return cfg
}
