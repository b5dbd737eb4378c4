// Package watch keeps a directory organized continuously: it subscribes to
// filesystem events on the target root and triggers an organize pass after
// the directory has settled.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"tidy/internal/logging"
	"tidy/internal/organizer"
)

// Runner performs one organize pass over the watched root.
type Runner func(ctx context.Context) error

// Watcher debounces filesystem events into organize passes. Events caused by
// the organizer's own moves (paths under category folders, its artifacts)
// are ignored so a pass does not retrigger itself.
type Watcher struct {
	root       string
	categories *organizer.CategoryMap
	settle     time.Duration
	logger     *slog.Logger
	run        Runner
}

// New builds a watcher for root. settle is the quiet period after the last
// relevant event before a pass runs.
func New(root string, categories *organizer.CategoryMap, settle time.Duration, logger *slog.Logger, run Runner) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	if categories == nil {
		categories, _ = organizer.NewCategoryMap(nil)
	}
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		root:       abs,
		categories: categories,
		settle:     settle,
		logger:     logger.With(logging.String("component", "watch")),
		run:        run,
	}, nil
}

// Watch runs an initial organize pass, then processes events until ctx is
// canceled.
func (w *Watcher) Watch(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer notifier.Close()

	if err := notifier.Add(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}

	w.logger.Info("watching directory", logging.String("target", w.root))
	if err := w.run(ctx); err != nil {
		return err
	}

	// Timer starts drained; it is armed by the first relevant event.
	timer := time.NewTimer(w.settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.logger.Debug("event", logging.String("op", event.Op.String()), logging.String("path", event.Name))
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.settle)
			}
		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		case <-timer.C:
			if err := w.run(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("organize pass failed", logging.Error(err))
			}
		}
	}
}

// relevant reports whether an event should schedule a pass: something
// appearing directly in the root that is not one of the organizer's own
// folders or artifacts.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return w.shouldProcess(event.Name)
}

func (w *Watcher) shouldProcess(path string) bool {
	if filepath.Dir(path) != w.root {
		return false
	}
	name := filepath.Base(path)
	if organizer.IsArtifact(name) {
		return false
	}
	return !w.categories.IsCategory(name)
}
