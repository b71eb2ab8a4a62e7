// Package watch re-runs a script file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler receives the file contents after each change.
type Handler func(ctx context.Context, source string)

// Watcher watches a single file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
}

// New returns a watcher for path. Bursts of events within debounce collapse
// into one run.
func New(path string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: filepath.Clean(path), debounce: debounce, logger: logger}
}

// RunOnce reads the file and passes it to h.
func (w *Watcher) RunOnce(ctx context.Context, h Handler) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	h(ctx, string(data))
	return nil
}

// Watch runs h once, then again after every write until ctx is done.
// The parent directory is watched because editors often replace files
// instead of writing them in place.
func (w *Watcher) Watch(ctx context.Context, h Handler) error {
	if err := w.RunOnce(ctx, h); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	changed := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-fw.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != w.path || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
					continue
				}
				w.logger.Debug("script changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return nil
				}
				return fmt.Errorf("watch error: %w", err)
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-changed:
			}

			if w.debounce > 0 {
				select {
				case <-gctx.Done():
					return nil
				case <-time.After(w.debounce):
				}
				select {
				case <-changed:
				default:
				}
			}

			if err := w.RunOnce(gctx, h); err != nil {
				// A replace-in-progress can leave the file briefly missing.
				w.logger.Warn("rerun skipped", zap.Error(err))
			}
		}
	})

	return g.Wait()
}
