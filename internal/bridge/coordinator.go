// Package bridge wires the palette reader, merge engine, and file watcher
// into the live-sync lifecycle. The Coordinator is the apply entry point: no
// failure escapes it uncaught — every cycle terminates in either a settings
// mutation or a reported, non-fatal outcome.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"matubridge/internal/config"
	"matubridge/internal/logging"
	"matubridge/internal/merge"
	"matubridge/internal/palette"
	"matubridge/internal/watch"
)

// Outcome is the user-facing result of one apply or clear cycle.
type Outcome struct {
	// Level classifies the outcome for reporting: info for success and
	// no-ops, warn for recoverable palette failures, error for persist
	// failures.
	Level slog.Level

	// Message is the human-readable report.
	Message string

	// Applied is the number of color tokens written (success only).
	Applied int

	// Skipped is the number of palette entries rejected per-key.
	Skipped int
}

// Failed reports whether the cycle ended at error level.
func (o Outcome) Failed() bool {
	return o.Level >= slog.LevelError
}

// StatusReport aggregates ownership status with the paths in play.
type StatusReport struct {
	Managed     merge.Status `json:"managed"`
	PalettePath string       `json:"palettePath"`
	SettingsKey string       `json:"settingsKey"`
	WatchedPath string       `json:"watchedPath,omitempty"`
	Enabled     bool         `json:"enabled"`
}

// Coordinator owns the sync lifecycle: it resolves the active palette path,
// runs the reader→engine pipeline, and keeps the watcher bound to the
// current path.
type Coordinator struct {
	cfg     *config.Config
	engine  *merge.Engine
	watcher *watch.Watcher
	logger  *slog.Logger
	out     io.Writer
}

// New creates a Coordinator over store using cfg. User-facing status lines
// go to out; pass nil to discard them.
func New(cfg *config.Config, store merge.Store, logger *slog.Logger, out io.Writer) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	if out == nil {
		out = io.Discard
	}

	c := &Coordinator{
		cfg:    cfg,
		engine: merge.NewEngine(store, cfg.SettingsKey),
		logger: logger,
		out:    out,
	}

	c.watcher = watch.New(cfg.Debounce, func() {
		c.report(c.Apply())
	}, logging.ForComponent(logger, "watch"))

	return c
}

// Engine exposes the merge engine for preview-style callers.
func (c *Coordinator) Engine() *merge.Engine { return c.engine }

// PalettePath resolves the palette file location from configuration.
func (c *Coordinator) PalettePath() (string, error) {
	return palette.ResolvePath(c.cfg.PalettePath)
}

// Apply runs one palette→settings cycle and reports it as an Outcome. Reader
// failures leave the previous colors in effect; persist failures assume no
// partial write. A disabled bridge reports a no-op without touching the
// store.
func (c *Coordinator) Apply() (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Level: slog.LevelError, Message: fmt.Sprintf("apply panicked: %v", r)}
		}
	}()

	if !c.cfg.Enabled {
		return Outcome{Level: slog.LevelInfo, Message: "bridge is disabled; nothing applied"}
	}

	path, err := c.PalettePath()
	if err != nil {
		return Outcome{Level: slog.LevelError, Message: err.Error()}
	}

	pal, err := palette.Read(path)
	if err != nil {
		var readErr *palette.ReadError
		if errors.As(err, &readErr) {
			// Recoverable: previous colors stay in effect.
			return Outcome{Level: slog.LevelWarn, Message: readErr.Error()}
		}

		return Outcome{Level: slog.LevelError, Message: err.Error()}
	}

	if err := c.engine.Apply(pal.Colors); err != nil {
		return Outcome{Level: slog.LevelError, Message: fmt.Sprintf("applying colors: %v", err)}
	}

	return Outcome{
		Level:   slog.LevelInfo,
		Applied: pal.Colors.Len(),
		Skipped: pal.Skipped,
		Message: fmt.Sprintf("applied %d color token(s), skipped %d", pal.Colors.Len(), pal.Skipped),
	}
}

// Clear removes every owned key from the settings object.
func (c *Coordinator) Clear() Outcome {
	removed, err := c.engine.Clear()
	if err != nil {
		return Outcome{Level: slog.LevelError, Message: fmt.Sprintf("clearing colors: %v", err)}
	}

	if removed == 0 {
		return Outcome{Level: slog.LevelInfo, Message: "no managed colors to clear"}
	}

	return Outcome{
		Level:   slog.LevelInfo,
		Message: fmt.Sprintf("cleared %d managed color token(s)", removed),
	}
}

// Status reports current ownership plus the paths in play. Pure read.
func (c *Coordinator) Status() (StatusReport, error) {
	managed, err := c.engine.ManagedStatus()
	if err != nil {
		return StatusReport{}, err
	}

	path, err := c.PalettePath()
	if err != nil {
		return StatusReport{}, err
	}

	return StatusReport{
		Managed:     managed,
		PalettePath: path,
		SettingsKey: c.engine.SettingsKey(),
		WatchedPath: c.watcher.Path(),
		Enabled:     c.cfg.Enabled,
	}, nil
}

// Run performs an initial apply, starts the watcher on the resolved palette
// path, and blocks until ctx is cancelled or a SIGINT/SIGTERM arrives.
func (c *Coordinator) Run(ctx context.Context) error {
	path, err := c.PalettePath()
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.out, "watching %s (debounce=%s, enabled=%t)\n",
		path, c.cfg.Debounce, c.cfg.Enabled)

	// Initial apply so a palette generated while the bridge was down is
	// picked up immediately.
	c.report(c.Apply())

	if err := c.watcher.Start(path); err != nil {
		return err
	}
	defer c.watcher.Stop()

	<-sigCtx.Done()
	fmt.Fprintln(c.out, "\nshutting down")

	return nil
}

// report prints a timestamped status line and mirrors it to the logger.
func (c *Coordinator) report(o Outcome) {
	now := time.Now().Format("15:04:05")

	fmt.Fprintf(c.out, "[%s] %s\n", now, o.Message)
	c.logger.Log(context.Background(), o.Level, o.Message,
		slog.Int("applied", o.Applied),
		slog.Int("skipped", o.Skipped),
	)
}
