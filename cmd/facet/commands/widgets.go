package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWidgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widgets",
		Short: "List the configured widgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Widgets(cmd.Context(), vaultFlag(cmd), cmd.OutOrStdout(), renderFlags(cmd))
		},
	}
	cmd.Flags().Bool("json", false, "Print the catalog as JSON")
	return cmd
}
