package commands

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/generate"
	"github.com/teranos/ctorgen/logger"
)

func newWatchCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [patterns...]",
		Short: "Regenerate builders whenever Go sources change",
		Long: `Generate once, then watch the matched package directories and regenerate
after every burst of .go file changes. The generated file itself and test
files are ignored. Stop with Ctrl+C.

The debounce window is configured with [watch] debounce_ms.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var mu sync.Mutex
			run := 0
			regenerate := func() []*generate.Result {
				mu.Lock()
				defer mu.Unlock()
				run++
				results, err := g.generation(ctx, args, nil)
				if err != nil {
					logger.Errorw("regeneration failed", logger.FieldRun, run, logger.FieldError, err)
					failure(cmd, "%v", err)
					return nil
				}
				logger.Infow("regenerated builders", logger.FieldRun, run)
				if err := g.write(cmd, results); err != nil {
					failure(cmd, "%v", err)
				}
				if err := g.reportDiagnostics(cmd.ErrOrStderr(), results); err != nil {
					failure(cmd, "%v", err)
				}
				return results
			}

			results := regenerate()
			if results == nil {
				return errors.New("initial generation failed")
			}

			log := logger.Named("watch")
			w, err := generate.NewWatcher(generate.Dirs(results), g.cfg.Generate.Output, g.cfg.Watch.Debounce(),
				func() { regenerate() }, log)
			if err != nil {
				return err
			}
			defer w.Close()

			success(cmd, "Watching %d package(s), press Ctrl+C to stop", len(results))
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	return cmd
}
