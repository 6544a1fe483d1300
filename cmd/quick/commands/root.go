// Package commands implements the CLI commands for the quick build cache.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/quick/internal/app"
	"go.trai.ch/quick/internal/build"
)

// CLI represents the command line interface for quick.
type CLI struct {
	app        *app.App
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "quick",
		Short:         "Build Rust dependencies once and reuse them from a local cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Log as JSON and disable interactive progress")

	c := &CLI{
		app:        components.App,
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.jsonMode(cmd) {
			c.components.UseJSON(true)
		}
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newRepoCmd())
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

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

func (c *CLI) jsonMode(cmd *cobra.Command) bool {
	enabled, _ := cmd.Flags().GetBool("json")
	return enabled
}
