package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/app"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [target]",
		Short: "Write the dependency graph and its build waves as Graphviz DOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}

			out := cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("output"); path != "" {
				f, err := os.Create(path) //nolint:gosec // path is provided by user
				if err != nil {
					return zerr.With(zerr.Wrap(err, "failed to create output file"), "path", path)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			return c.components.App.Graph(target, app.RunOptions{
				ConfigFile: c.configFile(),
			}, out)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write DOT to this file instead of stdout")
	return cmd
}
