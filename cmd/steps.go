package cmd

import (
	"github.com/spf13/cobra"
)

// stepsCmd shows the lifecycle events and whether they would run.
var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List lifecycle steps and their required directories",
	Long: `Lists every lifecycle event with the directories it requires, as
resolved from the defaults, the manifest and the environment. An event whose
directory is missing is skipped when it runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, console, err := newApplication(cmd)
		if err != nil {
			return err
		}
		console.RenderSteps(cmd.OutOrStdout(), application.Steps())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
}
