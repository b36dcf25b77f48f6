package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which commands a build would run and why",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := globalOptions(cmd)
			opts.Force, _ = cmd.Flags().GetBool("force")
			return c.app.Plan(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolP("force", "F", false, "Plan as if every command were forced")
	return cmd
}
