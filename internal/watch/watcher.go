package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher subscribes to filesystem events for a single palette file and
// invokes the apply callback once the debounce window closes.
//
// The parent directory is watched rather than the file itself: matugen
// replaces its output via rename, and a watch bound to the old inode would
// go silent after the first regeneration. Events are filtered back down to
// the exact path.
type Watcher struct {
	apply  func()
	logger *slog.Logger

	mu       sync.Mutex
	debounce time.Duration
	fsw      *fsnotify.Watcher
	path     string
	deb      *Debouncer
	done     chan struct{}
}

// New creates a stopped Watcher that will call apply after debounce of quiet
// following a create or change of the watched file.
func New(debounce time.Duration, apply func(), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		debounce: debounce,
		apply:    apply,
		logger:   logger,
	}
}

// SetDebounce changes the debounce interval. The new interval takes effect
// on the next Start, not mid-flight.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.debounce = d
}

// Start begins watching path, tearing down any existing subscription and
// pending debounced apply first. Restart is idempotent and never leaks the
// prior subscription.
func (w *Watcher) Start(path string) error {
	w.Stop()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving palette path %q: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %q: %w", dir, err)
	}

	w.mu.Lock()
	w.fsw = fsw
	w.path = abs
	w.deb = NewDebouncer(w.debounce, w.apply)
	w.done = make(chan struct{})
	deb, done, debounce := w.deb, w.done, w.debounce
	w.mu.Unlock()

	go w.loop(fsw, abs, deb, done)

	w.logger.Info("watching palette file",
		slog.String("path", abs),
		slog.Duration("debounce", debounce),
	)

	return nil
}

// loop dispatches fsnotify events for one subscription until done closes.
func (w *Watcher) loop(fsw *fsnotify.Watcher, path string, deb *Debouncer, done chan struct{}) {
	for {
		select {
		case <-done:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != path {
				continue
			}

			switch {
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				w.logger.Debug("palette event",
					slog.String("op", event.Op.String()),
					slog.String("path", path),
				)

				deb.Trigger()

			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				// Keep the applied colors until the file reappears.
				w.logger.Info("palette file removed; keeping applied colors",
					slog.String("path", path),
				)
			}

		case watchErr, ok := <-fsw.Errors:
			if !ok {
				return
			}

			w.logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// Stop tears down the current subscription and discards any pending
// debounced apply. Safe to call when already stopped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	fsw, deb, done := w.fsw, w.deb, w.done
	w.fsw, w.deb, w.done = nil, nil, nil
	w.path = ""
	w.mu.Unlock()

	if done != nil {
		close(done)
	}

	if deb != nil {
		deb.Stop()
	}

	if fsw != nil {
		fsw.Close()
	}
}

// Path returns the currently watched path, or "" when stopped.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.path
}
