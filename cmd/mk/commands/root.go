// Package commands implements the CLI commands for the mk build tool.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.trai.ch/mk/internal/app"
	"go.trai.ch/mk/internal/build"
)

// CLI represents the command line interface for mk.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// leveler is the slice of the logger the CLI needs for the verbose flag.
type leveler interface {
	SetLevel(slog.Level)
}

// New creates a new CLI instance with the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "mk",
		Short:         "A declarative, pattern-based build tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Rule file to use instead of discovering mk.yaml/mk.hcl")

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}
		if verbose {
			if l, ok := components.Logger.(leveler); ok {
				l.SetLevel(slog.LevelDebug)
			}
		}
		return nil
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newGraphCmd())
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

// SetOut redirects command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// configFile returns the value of the persistent file flag.
func (c *CLI) configFile() string {
	file, _ := c.rootCmd.PersistentFlags().GetString("file")
	return file
}
