package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/sweep/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove contexts left behind by interrupted runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")

			removed, err := c.app.Clean(cmd.Context(), app.CleanOptions{All: all})
			for _, id := range removed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "removed "+id)
			}
			return err
		},
	}

	// Incomplete contexts are removed by default.
	cmd.Flags().BoolP("incomplete", "i", false, "Remove contexts without a commit marker (default)")
	cmd.Flags().BoolP("all", "a", false, "Remove every context, completed ones too")
	cmd.MarkFlagsMutuallyExclusive("incomplete", "all")

	return cmd
}
