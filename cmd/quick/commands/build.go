package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/quick/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	var opts app.BuildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the dependencies of a package from cache, then the package itself",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Quiet = c.jsonMode(cmd)
			_, err := c.app.Build(cmd.Context(), opts)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Dir, "dir", "C", "", "Workspace directory (defaults to the nearest directory holding Cargo.lock)")
	flags.StringVarP(&opts.Graph, "graph", "g", "", "Read the package graph from a YAML file instead of cargo metadata")
	flags.StringVarP(&opts.Root, "root", "r", "", "Package to build as name@version (defaults to the workspace root)")
	flags.BoolVar(&opts.Host, "host", false, "Build the root package for the build machine")
	flags.IntVarP(&opts.Jobs, "jobs", "j", 0, "Compiler jobs per package (defaults to the configured value)")
	flags.IntVarP(&opts.Parallelism, "parallelism", "p", 0, "Packages built at the same time (defaults to the configured value)")
	flags.BoolVar(&opts.Online, "online", false, "Allow network access on the first compile attempt")
	flags.BoolVar(&opts.NoFinal, "no-final", false, "Stop once the dependencies are cached")
	return cmd
}
