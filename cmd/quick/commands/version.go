package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/quick/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version, commit and build date",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", build.Info())
		},
	}
}
