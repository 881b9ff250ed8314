package config

import (
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/teranos/ctorgen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	out := c.Generate.Output
	if out == "" {
		return errors.New("generate.output cannot be empty")
	}
	if filepath.Ext(out) != ".go" {
		return errors.Newf("generate.output must name a .go file, got %q", out)
	}
	if strings.ContainsAny(out, `/\`) {
		return errors.Newf("generate.output must be a file name, not a path, got %q", out)
	}
	if strings.HasSuffix(out, "_test.go") {
		return errors.Newf("generate.output cannot be a test file, got %q", out)
	}

	if c.Generate.Jobs < 1 {
		return errors.Newf("generate.jobs must be >= 1, got %d", c.Generate.Jobs)
	}

	if _, err := c.MinGoVersion(); err != nil {
		return err
	}

	for _, pattern := range c.Generate.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Newf("generate.exclude pattern %q is malformed", pattern)
		}
	}

	// Debounce: 0 = regenerate on every event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}

// MinGoVersion parses generate.min_go.
func (c *Config) MinGoVersion() (*semver.Version, error) {
	v, err := semver.NewVersion(c.Generate.MinGo)
	if err != nil {
		return nil, errors.Wrapf(err, "generate.min_go %q is not a version", c.Generate.MinGo)
	}
	return v, nil
}
