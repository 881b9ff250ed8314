package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/ctorgen/generate"
)

func newPlanCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plan [patterns...]",
		Short: "Print how each factory parameter was classified",
		Long: `Print the lowered builder plans without writing anything.

For every builder the plan lists the generated type, entry and exit names and,
per parameter, its kind (required, optional, sequence, set, map) and the
setter methods it gets.

Examples:
  ctorgen plan ./...
  ctorgen plan --format json ./internal/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.jsonOutput && !cmd.Flags().Changed("format") {
				format = "json"
			}
			results, err := g.generation(cmd.Context(), args, nil)
			if err != nil {
				return err
			}
			out, err := generate.MarshalPlans(generate.Plans(results), format)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			return g.reportDiagnostics(cmd.ErrOrStderr(), results)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	return cmd
}
