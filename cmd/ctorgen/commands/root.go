// Package commands implements the ctorgen command line.
package commands

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ctorgen/config"
	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/logger"
)

// globals holds the persistent flags and the configuration resolved from
// them before any subcommand runs.
type globals struct {
	verbosity  int
	jsonOutput bool
	configPath string
	dir        string

	cfg *config.Config
}

// NewRootCmd builds the ctorgen command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "ctorgen",
		Short: "Generate type-state builders for Go factory functions",
		Long: `ctorgen turns annotated factory functions into compile-time checked builders.

A builder only compiles when every required argument has been set exactly
once; optional and collection arguments may be left out.

Annotate a function or method:
  //ctorgen:builder [entry=Name] [exit=Name] [visibility=exported|unexported] [with_into=bool]

or a struct, to derive its constructor first:
  //ctorgen:derive

Examples:
  ctorgen generate ./...        # Write ctorgen_builders.go in every package
  ctorgen check ./...           # Fail if generated files are out of date
  ctorgen watch ./...           # Regenerate on source changes
  ctorgen plan --format yaml    # Show how parameters were classified
  ctorgen init                  # Write a starter ctorgen.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
	}

	root.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "Emit logs and machine output as JSON")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to ctorgen.toml (default: searched upward from the working directory)")
	root.PersistentFlags().StringVarP(&g.dir, "dir", "C", "", "Run as if ctorgen was started in this directory")

	root.AddCommand(
		newGenerateCmd(g),
		newCheckCmd(g),
		newWatchCmd(g),
		newPlanCmd(g),
		newInitCmd(g),
		newVersionCmd(g),
	)
	return root
}

// setup loads the configuration and initializes logging.
func (g *globals) setup(cmd *cobra.Command) error {
	if g.dir != "" {
		abs, err := filepath.Abs(g.dir)
		if err != nil {
			return errors.Wrapf(err, "invalid --dir %s", g.dir)
		}
		g.dir = abs
	}

	// init writes the configuration and must work even when an existing
	// one is broken.
	if cmd.Name() == "init" || cmd.Name() == "version" {
		g.cfg = config.Default()
	} else {
		cfg, err := g.loadConfig()
		if err != nil {
			return err
		}
		g.cfg = cfg
	}

	jsonLogs := g.jsonOutput || g.cfg.Log.JSON
	if jsonLogs {
		pterm.DisableStyling()
	}
	if err := logger.Initialize(jsonLogs, g.verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.Debugw("configuration loaded", "level", logger.LevelName(g.verbosity), logger.FieldFile, g.configPath, "config", g.cfg.String())

	if g.configPath != "" {
		unknown, err := config.Lint(g.configPath)
		if err == nil {
			for _, key := range unknown {
				logger.Warnw("unknown configuration key", "key", key, logger.FieldFile, g.configPath)
			}
		}
	}
	return nil
}

func (g *globals) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case g.configPath != "":
		cfg, err = config.LoadFromFile(g.configPath)
	case g.dir != "":
		g.configPath = config.FindProjectConfig(g.dir)
		if g.configPath == "" {
			return config.Default(), nil
		}
		cfg, err = config.LoadFromFile(g.configPath)
	default:
		g.configPath = config.FindProjectConfig("")
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		if g.configPath == "" {
			return nil, errors.Wrap(err, "invalid configuration")
		}
		return nil, errors.Wrapf(err, "invalid configuration in %s", g.configPath)
	}
	return cfg, nil
}
