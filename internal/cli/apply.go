package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"matubridge/internal/bridge"
	"matubridge/internal/palette"
)

func newApplyCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the current palette to the editor settings now",
		Long: `Apply reads the palette file and merges its color tokens into the
editor settings immediately, bypassing the watcher and debounce.

With --dry-run the next settings object is computed and shown as a
unified diff against the current one, and nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, _, err := newCoordinator(cmd)
			if err != nil {
				return err
			}

			if dryRun {
				return runApplyDryRun(cmd, coord)
			}

			return reportOutcome(cmd, coord.Apply())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the settings diff without writing")

	return cmd
}

func runApplyDryRun(cmd *cobra.Command, coord *bridge.Coordinator) error {
	path, err := coord.PalettePath()
	if err != nil {
		return err
	}

	pal, err := palette.Read(path)
	if err != nil {
		return err
	}

	current, next, err := coord.Engine().Preview(pal.Colors)
	if err != nil {
		return err
	}

	unified, err := settingsDiff(current, next)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if unified == "" {
		fmt.Fprintln(out, "no changes")
		return nil
	}

	fmt.Fprint(out, unified)

	return nil
}

// settingsDiff renders a unified diff between two settings objects.
// MarshalIndent sorts map keys, so the diff is stable across runs.
func settingsDiff(current, next map[string]any) (string, error) {
	oldDoc, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling current settings: %w", err)
	}

	newDoc, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling next settings: %w", err)
	}

	diff := difflib.UnifiedDiff{
		A:        splitLines(string(oldDoc)),
		B:        splitLines(string(newDoc)),
		FromFile: "current",
		ToFile:   "proposed",
		Context:  3,
	}

	unified, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("computing diff: %w", err)
	}

	return unified, nil
}

// splitLines splits a document into lines, each with a trailing newline for
// difflib compatibility.
func splitLines(doc string) []string {
	lines := strings.SplitAfter(doc, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) > 0 && !strings.HasSuffix(lines[len(lines)-1], "\n") {
		lines[len(lines)-1] += "\n"
	}

	return lines
}
