package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall <file>",
		Short: "Compute per-file widgets for a vault-relative path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Recall(cmd.Context(), vaultFlag(cmd), args[0], cmd.OutOrStdout(), renderFlags(cmd))
		},
	}
	cmd.Flags().Bool("json", false, "Print results as JSON")
	cmd.Flags().BoolP("force", "f", false, "Bypass the cache and recompute")
	return cmd
}
