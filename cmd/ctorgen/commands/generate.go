package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/generate"
)

func newGenerateCmd(g *globals) *cobra.Command {
	var auto bool
	var jobs int

	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Write builder files for the matched packages",
		Long: `Generate builders for every annotated declaration in the matched packages.

Each package with at least one builder gets one generated file (default
ctorgen_builders.go). A previously generated file is removed when its package
no longer has builders. Declarations with diagnostics are skipped; the rest
of the package is still generated.

Examples:
  ctorgen generate              # Current package
  ctorgen generate ./...        # Every package in the module
  ctorgen generate --auto ./... # Also pick up unannotated New* functions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := g.generation(cmd.Context(), args, func(o *generate.Options) {
				if cmd.Flags().Changed("auto") {
					o.AutoDetect = auto
				}
				if cmd.Flags().Changed("jobs") {
					o.Jobs = jobs
				}
			})
			if err != nil {
				return err
			}
			if err := g.write(cmd, results); err != nil {
				return err
			}
			return g.reportDiagnostics(cmd.ErrOrStderr(), results)
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Treat unannotated New/NewXxx functions as builder factories")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of packages processed concurrently")
	return cmd
}

// write persists results and reports what changed.
func (g *globals) write(cmd *cobra.Command, results []*generate.Result) error {
	changes, err := generate.Write(results)
	for _, c := range changes {
		path := g.display(c.Path)
		switch c.Action {
		case generate.ActionWritten:
			success(cmd, "Generated %s", path)
		case generate.ActionRemoved:
			success(cmd, "Removed %s (no builders left)", path)
		case generate.ActionKept:
			failure(cmd, "Kept %s: not generated by ctorgen", path)
		}
	}
	if err != nil {
		return errors.Wrap(err, "failed to write generated files")
	}
	return nil
}
