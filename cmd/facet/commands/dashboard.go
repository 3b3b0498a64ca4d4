package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive widget dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			return c.app.Dashboard(cmd.Context(), vaultFlag(cmd), watch)
		},
	}
	cmd.Flags().BoolP("watch", "w", true, "Refresh widgets when vault files change")
	return cmd
}
