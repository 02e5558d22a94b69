// Package cli implements the cobra command tree for matubridge.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"matubridge/internal/config"
	"matubridge/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "matubridge",
		Short: "Keep an editor color theme in sync with a matugen palette",
		Long: `matubridge watches a matugen-generated palette file and merges its
color tokens into the editor's settings file, live.

Palette changes are debounced and validated before anything is written.
The bridge tracks exactly which settings keys it owns, so applying a new
palette removes stale tokens, and clearing restores the settings to what
they were before the bridge ever ran. Keys it does not own are never
touched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("palettePath", cfg.PalettePath),
				slog.String("settingsKey", cfg.SettingsKey),
				slog.Duration("debounce", cfg.Debounce),
				slog.Bool("enabled", cfg.Enabled),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .matubridge.yaml)")
	pf.String("palette-path", "", "palette file to watch (default: platform matugen location)")
	pf.String("settings-path", "", "editor settings file to merge into (default: platform location)")
	pf.String("settings-key", config.Default().SettingsKey, "settings entry holding color overrides")
	pf.Duration("debounce", config.DefaultDebounce, "quiet period before applying palette changes")
	pf.Bool("enabled", true, "apply palette changes (false makes every apply a no-op)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	// Register subcommands.
	cmd.AddCommand(
		newRunCommand(),
		newApplyCommand(),
		newClearCommand(),
		newStatusCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}
