package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lifecycler/internal/app"
	"lifecycler/internal/cli"
	"lifecycler/internal/config"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (step failed, invalid arguments).
	ExitCodeError = 1
)

// Persistent flags shared by every command.
var (
	projectDir   string
	manifestPath string
	configPath   string
	debug        bool
)

// rootCmd represents the base command for the lifecycler application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lifecycler",
	Short: "Run project lifecycle steps and the development server",
	Long: `lifecycler reacts to package-manager lifecycle events by running the
project's build steps: generating the bootstrap artifact, clearing the
cache and installing public assets. It also launches the interpreter's
built-in web server for local development.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	// Errors are printed by Execute so that exit codes and styling stay in one place.
	SilenceErrors: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "lifecycler version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(cli.NewConsole(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr()), err)
		os.Exit(getExitCode(err))
	}
}

// reportError prints err unless it was already shown to the user.
func reportError(console *cli.Console, err error) {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) && exitErr.Silent() {
		return
	}
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		console.ErrorLine(cfgErr.DetailedError())
		return
	}
	console.ErrorLine(cli.FormatError(err))
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Default to general error
	return ExitCodeError
}

// newApplication bootstraps the application for a command.
func newApplication(cmd *cobra.Command) (*app.Application, *cli.Console, error) {
	console := cli.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())

	path := configPath
	if path == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, nil, err
		}
		path = defaultPath
	}

	application, err := app.NewApplication(app.NewConfig(debug, path, projectDir, manifestPath), console, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, console, nil
}

// init is a special Go function that is executed when the package is initialized.
// It is used here to add subcommands and persistent flags to the root command.
func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "Project root directory (default is the working directory)")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", config.DefaultManifestFileName, "Project manifest, relative to the project directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "Configuration directory (default is $HOME/.config/lifecycler)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
