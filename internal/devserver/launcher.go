// Package devserver launches the interpreter's built-in web server for a
// project.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lifecycler/internal/process"
	"lifecycler/pkg/logging"
)

const subsystem = "DevServer"

// ProdEnvironment triggers a warning when serving with the built-in server.
const ProdEnvironment = "prod"

// Verbosity mirrors the console verbosity levels.
type Verbosity int

const (
	VerbosityNormal Verbosity = iota
	VerbosityVerbose
	VerbosityVeryVerbose
	VerbosityDebug
)

var (
	// ErrDocRootMissing is returned when the document root is not a directory.
	ErrDocRootMissing = errors.New("document root does not exist")
	// ErrRouterMissing is returned when the router script does not exist.
	ErrRouterMissing = errors.New("router script does not exist")
)

// Output is where the launcher reports to the user.
type Output interface {
	WriteLine(msg string)
	// ErrorLine writes a message styled as an error.
	ErrorLine(msg string)
	Write(p []byte)
}

// Runner runs the server process. *process.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, cmd process.Command, onChunk func(process.Chunk)) process.Result
}

// Command is the launch sequence of a development server.
type Command interface {
	// ValidateDocRoot checks that the document root exists.
	ValidateDocRoot() error
	// ResolveRouter returns the absolute path of the router script.
	ResolveRouter() (string, error)
	// BuildCommandLine returns the server command for the router.
	BuildCommandLine(router string) process.Command
}

// Options configure one server run.
type Options struct {
	Address string
	DocRoot string
	// Router overrides the default router script.
	Router string
	// AppDir holds Resources/router.php, the default router.
	AppDir      string
	Environment string
	Verbosity   Verbosity
	PHP         string
}

// routerResource is where the application overrides the framework bundle's
// router script, relative to the app directory.
var routerResource = filepath.Join("Resources", "MinimalBundle", "config", "router.php")

// DefaultRouter returns the router script used when none is given.
func DefaultRouter(appDir string) string {
	return filepath.Join(appDir, routerResource)
}

// Launcher starts the built-in server.
type Launcher struct {
	opts   Options
	runner Runner
	out    Output
}

var _ Command = (*Launcher)(nil)

// NewLauncher creates a Launcher.
func NewLauncher(opts Options, runner Runner, out Output) *Launcher {
	return &Launcher{opts: opts, runner: runner, out: out}
}

func (l *Launcher) ValidateDocRoot() error {
	info, err := os.Stat(l.opts.DocRoot)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDocRootMissing, l.opts.DocRoot)
	}
	return nil
}

func (l *Launcher) ResolveRouter() (string, error) {
	router := l.opts.Router
	if router == "" {
		router = DefaultRouter(l.opts.AppDir)
	}
	if _, err := os.Stat(router); err != nil {
		return router, fmt.Errorf("%w: %s", ErrRouterMissing, router)
	}
	abs, err := filepath.Abs(router)
	if err != nil {
		return router, err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

func (l *Launcher) BuildCommandLine(router string) process.Command {
	return process.Command{
		Executable: l.opts.PHP,
		Args:       []string{"-S", l.opts.Address, router},
		Dir:        l.opts.DocRoot,
		// The server runs until interrupted.
		Timeout:       nil,
		DisableOutput: l.opts.Verbosity < VerbosityVerbose,
	}
}

// Run serves until the server exits or ctx is cancelled and returns the
// command's exit code.
func (l *Launcher) Run(ctx context.Context) int {
	if err := l.ValidateDocRoot(); err != nil {
		l.out.ErrorLine(fmt.Sprintf("The given document root directory \"%s\" does not exist", l.opts.DocRoot))
		return 1
	}

	if l.opts.Environment == ProdEnvironment {
		l.out.ErrorLine("Running PHP built-in server in production environment is NOT recommended!")
	}

	l.out.WriteLine(fmt.Sprintf("Server running on http://%s\n", l.opts.Address))
	l.out.WriteLine("Quit the server with CONTROL-C.")

	router, err := l.ResolveRouter()
	if err != nil {
		l.out.ErrorLine(fmt.Sprintf("The given router script \"%s\" does not exist", router))
		return 1
	}

	cmd := l.BuildCommandLine(router)
	logging.Info(subsystem, "Starting %s in %s", cmd, cmd.Dir)

	result := l.runner.Run(ctx, cmd, func(c process.Chunk) { l.out.Write(c.Data) })
	if ctx.Err() != nil {
		logging.Debug(subsystem, "Server stopped: %v", ctx.Err())
		return 0
	}
	if !result.Success() {
		logging.Debug(subsystem, "Server exited with code %d: %v", result.ExitCode, result.Err)
		l.out.ErrorLine("Built-in server terminated unexpectedly")
		if cmd.DisableOutput {
			l.out.ErrorLine("Run the command again with -v option for more details")
		}
		if result.ExitCode <= 0 {
			return 1
		}
	}
	return result.ExitCode
}
