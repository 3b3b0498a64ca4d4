// Package commands implements the CLI commands for the facet widget engine.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/facet/internal/app"
	"go.trai.ch/facet/internal/build"
)

// CLI represents the command line interface for facet.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Widgets(ctx context.Context, vaultRoot string, out io.Writer, opts app.RenderOptions) error
	Ground(ctx context.Context, vaultRoot string, out io.Writer, opts app.RenderOptions) error
	Recall(ctx context.Context, vaultRoot, filePath string, out io.Writer, opts app.RenderOptions) error
	Watch(ctx context.Context, vaultRoot string) error
	Dashboard(ctx context.Context, vaultRoot string, watch bool) error
}

// Logger is the surface of the logger the CLI configures.
type Logger interface {
	SetVerbose(verbose bool)
}

// New creates a new CLI instance with the given app and logger.
func New(a Application, log Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "facet",
		Short:         "Dashboard widgets for note vaults",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			log.SetVerbose(verbose)
		},
	}

	rootCmd.PersistentFlags().StringP("vault", "C", ".", "Path to the vault root")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newWidgetsCmd())
	rootCmd.AddCommand(c.newGroundCmd())
	rootCmd.AddCommand(c.newRecallCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newDashboardCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func vaultFlag(cmd *cobra.Command) string {
	vault, _ := cmd.Flags().GetString("vault")
	return vault
}

func renderFlags(cmd *cobra.Command) app.RenderOptions {
	jsonOut, _ := cmd.Flags().GetBool("json")
	force, _ := cmd.Flags().GetBool("force")
	return app.RenderOptions{JSON: jsonOut, Force: force}
}
