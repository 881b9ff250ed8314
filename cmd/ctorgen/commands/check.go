package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/generate"
)

func newCheckCmd(g *globals) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Check that generated builders are up to date",
		Long: `Generate builders in memory and compare them with the files on disk.

The header line is ignored, so regenerating with a different ctorgen build
does not count as a change. Exits with a non-zero status when any file is
out of date or generation reports diagnostics. Useful in CI.

Examples:
  ctorgen check ./...
  ctorgen check --quiet ./...   # Only list stale files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := g.generation(cmd.Context(), args, nil)
			if err != nil {
				return err
			}
			if err := g.reportDiagnostics(cmd.ErrOrStderr(), results); err != nil {
				return err
			}

			stale, err := generate.Check(results)
			if err != nil {
				return err
			}
			if len(stale) == 0 {
				success(cmd, "Builders are up to date")
				return nil
			}

			for _, s := range stale {
				failure(cmd, "%s is out of date", g.display(s.Path))
				if !quiet && s.Diff != "" {
					fmt.Fprint(cmd.OutOrStdout(), g.relative(s.Diff))
				}
			}
			return errors.WithHint(
				errors.Wrapf(errors.ErrOutOfDate, "%d file(s)", len(stale)),
				"run 'ctorgen generate' to regenerate")
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print diffs")
	return cmd
}
