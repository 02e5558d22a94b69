package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"matubridge/internal/bridge"
	"matubridge/internal/config"
	"matubridge/internal/logging"
	"matubridge/internal/merge"
)

// newCoordinator builds a Coordinator from the command's context config,
// resolving the settings store location.
func newCoordinator(cmd *cobra.Command) (*bridge.Coordinator, *merge.FileStore, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	settingsPath := cfg.SettingsPath
	if settingsPath == "" {
		p, err := merge.DefaultSettingsPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving settings path: %w", err)
		}

		settingsPath = p
	}

	store := merge.NewFileStore(settingsPath)

	return bridge.New(cfg, store, logger, cmd.ErrOrStderr()), store, nil
}

// reportOutcome prints an outcome to the user and converts error-level
// outcomes into a non-zero exit.
func reportOutcome(cmd *cobra.Command, o bridge.Outcome) error {
	fmt.Fprintln(cmd.ErrOrStderr(), o.Message)

	if o.Failed() {
		return &ExitError{Code: 1, Err: fmt.Errorf("%s", o.Message)}
	}

	return nil
}
