package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every target of the manifest incrementally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := globalOptions(cmd)
			opts.Jobs, _ = cmd.Flags().GetInt("jobs")
			opts.FailFast, _ = cmd.Flags().GetBool("fail-fast")
			opts.Force, _ = cmd.Flags().GetBool("force")
			opts.MetricsFile, _ = cmd.Flags().GetString("metrics-file")

			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return c.app.Watch(cmd.Context(), opts)
			}
			return c.app.Build(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of commands to run concurrently (default from settings, or 1)")
	cmd.Flags().Bool("fail-fast", false, "Stop starting new commands after the first failure")
	cmd.Flags().BoolP("force", "F", false, "Run every command regardless of timestamps")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild whenever a source file changes")
	cmd.Flags().String("metrics-file", "", "Write build metrics in Prometheus text format to this file")
	return cmd
}
