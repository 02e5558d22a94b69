package cli

import (
	"github.com/spf13/cobra"
)

func newClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all bridge-managed colors from the editor settings",
		Long: `Clear deletes exactly the color tokens the bridge currently owns,
plus its ownership record, restoring the settings entry to what it
would be had the bridge never run. Keys the bridge does not own are
left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, _, err := newCoordinator(cmd)
			if err != nil {
				return err
			}

			return reportOutcome(cmd, coord.Clear())
		},
	}

	return cmd
}
