package cli

import (
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the palette file and apply changes live",
		Long: `Run starts the bridge daemon: it applies the current palette once,
then watches the palette file and re-applies on every change.

Change bursts are debounced into a single apply. Deleting the palette
file is logged but leaves the applied colors in place; they refresh when
the file reappears. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, _, err := newCoordinator(cmd)
			if err != nil {
				return err
			}

			return coord.Run(cmd.Context())
		},
	}

	return cmd
}
