package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ctorgen/diag"
	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/generate"
	"github.com/teranos/ctorgen/logger"
)

// generation runs the in-memory pipeline for the command's patterns.
func (g *globals) generation(ctx context.Context, args []string, override func(*generate.Options)) ([]*generate.Result, error) {
	opts, err := generate.OptionsFromConfig(g.cfg, g.dir, args)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(&opts)
	}
	return generate.Run(ctx, opts)
}

// reportDiagnostics prints every diagnostic of results to w and returns
// a non-nil error when any of them is an error.
func (g *globals) reportDiagnostics(w io.Writer, results []*generate.Result) error {
	errs, warnings := generate.Diagnostics(results)
	format := diag.FormatTerminal
	if logger.JSONOutput {
		format = diag.FormatPlain
	}
	for _, d := range warnings {
		fmt.Fprintln(w, g.relative(d.FormatError(format)))
	}
	for _, d := range errs {
		fmt.Fprintln(w, g.relative(d.FormatError(format)))
	}
	if len(errs) > 0 {
		return errors.WrapDiagnostics(len(errs))
	}
	return nil
}

// relative shortens absolute paths under the working directory.
func (g *globals) relative(s string) string {
	if g.base() == "" {
		return s
	}
	return strings.ReplaceAll(s, g.base()+string(filepath.Separator), "")
}

func (g *globals) display(path string) string {
	if rel, err := filepath.Rel(g.base(), path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func (g *globals) base() string {
	if g.dir != "" {
		return g.dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func success(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", pterm.Green("✓"), fmt.Sprintf(format, args...))
}

func failure(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", pterm.Red("✗"), fmt.Sprintf(format, args...))
}
