// Package commands implements the CLI commands for the mindc build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/mindc/internal/app"
	"go.trai.ch/mindc/internal/build"
)

// CLI represents the command line interface for mindc.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.Options) error
	Watch(ctx context.Context, opts app.Options) error
	Plan(ctx context.Context, opts app.Options) error
	Clean(ctx context.Context, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "mindc",
		Short:         "Incremental build driver for ADL component projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("dir", "C", ".", "Directory to search for mind.yaml or mind.hcl from")
	flags.String("config", "", "Settings file taking precedence over all others")
	flags.BoolP("verbose", "v", false, "Print debug logs and every finished command")
	flags.Bool("json", false, "Write logs as JSON")
	flags.String("color", "auto", "Colorize output: auto, always, or never")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newCleanCmd())
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

// globalOptions reads the persistent flags shared by every command.
func globalOptions(cmd *cobra.Command) app.Options {
	dir, _ := cmd.Flags().GetString("dir")
	config, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	color, _ := cmd.Flags().GetString("color")

	return app.Options{
		Dir:        dir,
		ConfigFile: config,
		Verbose:    verbose,
		JSON:       jsonLogs,
		Color:      color,
	}
}
