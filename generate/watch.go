package generate

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/ctorgen/errors"
	"github.com/teranos/ctorgen/logger"
)

// Watcher watches package directories for Go source changes and triggers a
// regeneration once a burst of changes has settled.
type Watcher struct {
	watcher        *fsnotify.Watcher
	output         string
	onChange       func()
	log            *zap.SugaredLogger
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewWatcher creates a watcher over dirs. onChange runs on its own goroutine
// after debounce has passed without further changes. Changes to the output
// file itself are ignored, so writing it does not retrigger generation.
func NewWatcher(dirs []string, output string, debounce time.Duration, onChange func(), log *zap.SugaredLogger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	if log == nil {
		log = logger.Named("watch")
	}

	return &Watcher{
		watcher:        watcher,
		output:         output,
		onChange:       onChange,
		log:            log,
		debouncePeriod: debounce,
	}, nil
}

// Run monitors file system events until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("source changed",
				logger.FieldFile, event.Name,
				logger.FieldEvent, event.Op.String())
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// relevant reports whether an event can change generation output.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if filepath.Ext(base) != ".go" || base == w.output {
		return false
	}
	// Editor swap and backup files
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return !strings.HasSuffix(base, "_test.go")
}

// schedule debounces rapid file changes and triggers onChange
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.onChange)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Dirs returns the directories of results, for watching.
func Dirs(results []*Result) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range results {
		if r.Dir != "" && !seen[r.Dir] {
			seen[r.Dir] = true
			out = append(out, r.Dir)
		}
	}
	return out
}
