// Package statewatcher reports token snapshots written by other processes.
// It watches the snapshot directory, debounces bursts of file events, reloads
// the snapshot and hands it to a callback when it differs from the last one.
package statewatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/tokenlife/pkg/log"
	"github.com/bft-labs/tokenlife/pkg/token"
)

// Source is the snapshot being watched. *snapshot.FileRepository satisfies it.
type Source interface {
	Load(ctx context.Context) (token.State, error)
	Path() string
}

// Config holds watcher options.
type Config struct {
	// Debounce is how long to wait after the last file event before reloading.
	// Default: 100 milliseconds
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{Debounce: 100 * time.Millisecond}
}

// Handler receives each newly observed state.
type Handler func(token.State)

// Watcher follows a snapshot file.
type Watcher struct {
	debounce time.Duration
	source   Source
	logger   log.Logger
}

// New creates a watcher for source.
func New(cfg Config, source Source, logger log.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Watcher{
		debounce: cfg.Debounce,
		source:   source,
		logger:   logger.With(log.String("component", "statewatcher")),
	}
}

// Run calls handler with the current state, then again after every change,
// until ctx is done. Snapshots that fail to load are logged and skipped.
// Returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	path := w.source.Path()
	dir := filepath.Dir(path)
	name := filepath.Base(path)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	last, err := w.source.Load(ctx)
	if err != nil {
		w.logger.Warn("initial snapshot unreadable, assuming cleared", log.Err(err))
		last = token.Initial()
	}
	handler(last)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			st, err := w.source.Load(ctx)
			if err != nil {
				w.logger.Warn("skipping unreadable snapshot", log.Err(err))
				continue
			}
			if st == last {
				continue
			}
			w.logger.Debug("snapshot changed",
				log.Stringer("from", last.Status),
				log.Stringer("to", st.Status),
			)
			last = st
			handler(st)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", log.Err(err))
		}
	}
}
