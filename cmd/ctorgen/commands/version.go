package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/version"
)

func newVersionCmd(g *globals) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display version, build time and commit of this ctorgen binary, and the
version of the formatter that shapes generated files.

Examples:
  ctorgen version           # Human-readable output
  ctorgen version --json    # JSON output
  ctorgen version --short   # Short commit hash`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()

			switch {
			case g.jsonOutput:
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to marshal version info")
				}
				fmt.Fprintln(out, string(data))
			case short:
				fmt.Fprintln(out, info.Short())
			default:
				fmt.Fprintln(out, info.String())
				fmt.Fprintf(out, "Platform: %s\n", info.Platform)
				fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
				fmt.Fprintf(out, "Formatter: %s %s\n", version.FormatterModule, info.Formatter)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the short commit hash")
	return cmd
}
