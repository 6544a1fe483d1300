package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/quick/internal/core/domain"
)

func (c *CLI) newRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Inspect the build cache",
	}
	cmd.AddCommand(c.newRepoListCmd())
	cmd.AddCommand(c.newRepoSearchCmd())
	cmd.AddCommand(c.newRepoStatsCmd())
	return cmd
}

func (c *CLI) newRepoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fps, err := c.app.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, fp := range fps {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), fp)
			}
			return nil
		},
	}
}

func (c *CLI) newRepoSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search PATH",
		Short: "List cached builds whose archive contains PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fps, err := c.app.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, fp := range fps {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), fp)
			}
			return nil
		},
	}
}

func (c *CLI) newRepoStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FINGERPRINT",
		Short: "Show the phase durations of a cached build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.app.Stats(cmd.Context(), domain.Fingerprint(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.jsonMode(cmd) {
				data, err := json.Marshal(stats)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, string(data))
				return nil
			}

			for _, row := range []struct {
				phase string
				d     time.Duration
			}{
				{"setup", stats.Setup},
				{"unpack", stats.Unpack},
				{"compile", stats.Compile},
				{"pack", stats.Pack},
				{"total", stats.Total()},
			} {
				_, _ = fmt.Fprintf(out, "%-8s %s\n", row.phase, row.d)
			}
			return nil
		},
	}
}
