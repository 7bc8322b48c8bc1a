package cmd

import (
	"context"
	"fmt"

	"lifecycler/internal/bootstrap"
	"lifecycler/internal/lifecycle"

	"github.com/spf13/cobra"
)

var buildWatch bool

var eventDescriptions = map[lifecycle.Event]struct{ short, long string }{
	lifecycle.BuildBootstrap: {
		short: "Generate the bootstrap artifact",
		long: `Aggregates the framework's always-needed modules into a single
bootstrap.cache file in the var directory. The file is replaced on every
run. With --watch the artifact is regenerated whenever a module source
changes, until interrupted.`,
	},
	lifecycle.ClearCache: {
		short: "Clear the application cache",
		long: `Runs the project's console cache:clear command. --no-warmup is passed
unless the manifest sets cache-warmup to true.`,
	},
	lifecycle.InstallAssets: {
		short: "Install public assets into the web directory",
		long: `Runs the project's console assets:install command for the web
directory. The assets-install-mode option (or SYMFONY_ASSETS_INSTALL)
selects hard copies, symlinks or relative symlinks.`,
	},
}

// newEventCmd creates the command that handles a single lifecycle event.
func newEventCmd(event lifecycle.Event) *cobra.Command {
	desc := eventDescriptions[event]
	return &cobra.Command{
		Use:   string(event),
		Short: desc.short,
		Long:  desc.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, event)
		},
	}
}

func runEvent(cmd *cobra.Command, event lifecycle.Event) error {
	application, console, err := newApplication(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := application.Handle(ctx, event)
	if out.Err != nil {
		return out.Err
	}
	if event != lifecycle.BuildBootstrap || !buildWatch {
		return nil
	}
	if out.Skipped {
		return fmt.Errorf("cannot watch: %s", out.Diagnostic)
	}

	console.WriteLine("Watching module sources for changes. Quit with CONTROL-C.")
	return application.Watch(ctx, func(a *bootstrap.Artifact, err error) {
		if err != nil {
			console.ErrorLine(fmt.Sprintf("An error occurred when generating the bootstrap file: %v", err))
			return
		}
		console.Success(fmt.Sprintf("Bootstrap file written to %s", a.Path))
	})
}

func init() {
	for _, event := range lifecycle.Events() {
		c := newEventCmd(event)
		if event == lifecycle.BuildBootstrap {
			c.Flags().BoolVar(&buildWatch, "watch", false, "Regenerate the artifact when module sources change")
		}
		rootCmd.AddCommand(c)
	}
}
