package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show managed color count and resolved paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, store, err := newCoordinator(cmd)
			if err != nil {
				return err
			}

			report, err := coord.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if jsonOutput {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling status: %w", err)
				}

				_, err = fmt.Fprintln(out, string(data))

				return err
			}

			fmt.Fprintf(out, "managed tokens: %d\n", report.Managed.Count)

			if report.Managed.AppliedAt != "" {
				fmt.Fprintf(out, "applied at:     %s\n", report.Managed.AppliedAt)
			}

			fmt.Fprintf(out, "palette path:   %s\n", report.PalettePath)
			fmt.Fprintf(out, "settings file:  %s\n", store.Path())
			fmt.Fprintf(out, "settings key:   %s\n", report.SettingsKey)
			fmt.Fprintf(out, "enabled:        %t\n", report.Enabled)

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output status as JSON")

	return cmd
}
