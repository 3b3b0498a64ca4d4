package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newGroundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ground",
		Short: "Compute all vault-wide widgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Ground(cmd.Context(), vaultFlag(cmd), cmd.OutOrStdout(), renderFlags(cmd))
		},
	}
	cmd.Flags().Bool("json", false, "Print results as JSON")
	cmd.Flags().BoolP("force", "f", false, "Bypass the cache and recompute")
	return cmd
}
