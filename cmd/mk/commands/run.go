package commands

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"go.trai.ch/mk/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Build the given targets, or the default target 'all'",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			parallel, _ := cmd.Flags().GetBool("parallel")
			jobs, _ := cmd.Flags().GetInt("jobs")
			varFlags, _ := cmd.Flags().GetStringArray("var")

			vars, err := parseVars(varFlags)
			if err != nil {
				return err
			}

			return c.components.App.Run(cmd.Context(), args, app.RunOptions{
				DryRun:     dryRun,
				Parallel:   parallel,
				Jobs:       jobs,
				Vars:       vars,
				ConfigFile: c.configFile(),
			})
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Print recipes without executing them")
	cmd.Flags().BoolP("parallel", "p", false, "Run independent recipes concurrently")
	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "Concurrent recipe limit in parallel mode")
	cmd.Flags().StringArray("var", nil, "Override a rule variable as NAME=VALUE (repeatable)")
	return cmd
}

// parseVars converts NAME=VALUE flags into the override map.
func parseVars(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	vars := make(map[string]string, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, zerr.With(zerr.New("variable overrides must be NAME=VALUE"), "flag", f)
		}
		vars[name] = value
	}
	return vars, nil
}
