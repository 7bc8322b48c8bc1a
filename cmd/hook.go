package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// hookCmd runs the lifecycle events a manifest attaches to a hook.
var hookCmd = &cobra.Command{
	Use:   "run-hook <hook-name>",
	Short: "Run the lifecycle events of a package-manager hook",
	Long: `Runs, in order, the lifecycle events listed under the hook in the
manifest's scripts section, for example post-install-cmd or post-update-cmd.

Entries are event names (build-bootstrap, clear-cache, install-assets) or
script handler callables ending in ::buildBootstrap, ::clearCache or
::installAssets. Other entries are ignored. The first failing event stops
the hook.`,
	Args: cobra.ExactArgs(1),
	RunE: runHook,
}

func runHook(cmd *cobra.Command, args []string) error {
	application, console, err := newApplication(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	outcomes, err := application.Dispatch(ctx, args[0])
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		console.Warning(fmt.Sprintf("Hook %s has no lifecycle events", args[0]))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
