package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the vault and invalidate caches on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), vaultFlag(cmd))
		},
	}
}
