package cmd

import (
	"context"

	"lifecycler/internal/app"
	"lifecycler/internal/cli"
	"lifecycler/internal/devserver"

	"github.com/spf13/cobra"
)

var (
	serverDocRoot string
	serverRouter  string
	serverEnv     string
	serverVerbose int
)

// serverRunCmd launches the interpreter's built-in web server.
var serverRunCmd = &cobra.Command{
	Use:   "server:run [address]",
	Short: "Serve the project with the PHP built-in web server",
	Long: `Runs the PHP built-in web server with the project's router script.
The server runs in the document root until interrupted with CONTROL-C.

The address defaults to serverAddress from the configuration
(127.0.0.1:8000), the document root to the web directory and the router to
<app-dir>/Resources/router.php. Server output is shown with -v.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	application, _, err := newApplication(cmd)
	if err != nil {
		return err
	}

	req := app.ServerRequest{
		DocRoot:     serverDocRoot,
		Router:      serverRouter,
		Environment: serverEnv,
		Verbosity:   devserver.Verbosity(serverVerbose),
	}
	if len(args) == 1 {
		req.Address = args[0]
	}
	if debug && req.Verbosity < devserver.VerbosityDebug {
		req.Verbosity = devserver.VerbosityDebug
	}

	launcher, err := application.Launcher(req)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if code := launcher.Run(ctx); code != ExitCodeSuccess {
		// The launcher already told the user what went wrong.
		return &cli.ExitError{Code: code}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serverRunCmd)

	serverRunCmd.Flags().StringVarP(&serverDocRoot, "docroot", "d", "", "Document root (default is the web directory)")
	serverRunCmd.Flags().StringVarP(&serverRouter, "router", "r", "", "Router script")
	serverRunCmd.Flags().StringVarP(&serverEnv, "env", "e", "dev", "Application environment")
	serverRunCmd.Flags().CountVarP(&serverVerbose, "verbose", "v", "Increase verbosity (-v shows server output)")
}
