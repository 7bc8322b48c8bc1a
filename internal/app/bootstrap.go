package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lifecycler/internal/bootstrap"
	"lifecycler/internal/cli"
	"lifecycler/internal/config"
	"lifecycler/internal/devserver"
	"lifecycler/internal/lifecycle"
	"lifecycler/internal/options"
	"lifecycler/pkg/logging"
)

// Application is one lifecycler invocation.
type Application struct {
	config   *Config
	console  *cli.Console
	services *Services
}

// NewApplication bootstraps logging and configuration and initializes the
// services. Logs go to logOutput, user-facing output to console.
func NewApplication(cfg *Config, console *cli.Console, logOutput io.Writer) (*Application, error) {
	logging.InitForCLI(logLevel(cfg.Debug, ""), logOutput)

	if cfg.Env == nil {
		cfg.Env = os.LookupEnv
	}

	projectDir := cfg.ProjectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine the project directory: %w", err)
		}
		projectDir = wd
	}
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory %s: %w", cfg.ProjectDir, err)
	}
	cfg.ProjectDir = projectDir

	if cfg.LifecyclerConfig == nil {
		toolCfg, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load lifecycler configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load lifecycler configuration from path %s: %w", cfg.ConfigPath, err)
		}
		cfg.LifecyclerConfig = &toolCfg
	}
	logging.InitWithFormat(logLevel(cfg.Debug, cfg.LifecyclerConfig.LogLevel), cfg.LifecyclerConfig.LogFormat, logOutput)

	if cfg.Manifest == nil {
		manifestPath := cfg.ManifestPath
		if manifestPath == "" {
			manifestPath = config.DefaultManifestFileName
		}
		if !filepath.IsAbs(manifestPath) {
			manifestPath = filepath.Join(projectDir, manifestPath)
		}
		manifest, err := config.LoadManifest(manifestPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load project manifest: %s", manifestPath)
			return nil, fmt.Errorf("failed to load project manifest %s: %w", manifestPath, err)
		}
		cfg.Manifest = &manifest
	}

	services, err := InitializeServices(cfg, console)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{config: cfg, console: console, services: services}, nil
}

func logLevel(debug bool, configured string) logging.LogLevel {
	if debug {
		return logging.LevelDebug
	}
	level, ok := logging.ParseLevel(configured)
	if !ok || strings.TrimSpace(configured) == "" {
		return logging.LevelWarn
	}
	return level
}

// ProjectDir returns the absolute project directory.
func (a *Application) ProjectDir() string {
	return a.config.ProjectDir
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Options resolves a fresh option set from defaults, the manifest and the
// environment.
func (a *Application) Options() options.Set {
	return a.services.Dispatcher.Options()
}

// Handle runs a single lifecycle event.
func (a *Application) Handle(ctx context.Context, event lifecycle.Event) lifecycle.Outcome {
	return a.services.Pipeline.Handle(ctx, event, a.Options())
}

// Dispatch runs the events attached to a manifest hook.
func (a *Application) Dispatch(ctx context.Context, hook string) ([]lifecycle.Outcome, error) {
	return a.services.Dispatcher.Dispatch(ctx, hook)
}

// Steps describes every event with the state of its required directories.
func (a *Application) Steps() []cli.StepRow {
	opts := a.Options()
	rows := make([]cli.StepRow, 0, len(lifecycle.Events()))
	for _, e := range lifecycle.Events() {
		row := cli.StepRow{Event: string(e), Action: e.Action()}
		for _, pre := range lifecycle.CheckPreconditions(a.config.ProjectDir, e, opts) {
			row.Dirs = append(row.Dirs, cli.DirStatus{Key: pre.Key, Path: pre.Path, Exists: pre.Exists})
		}
		rows = append(rows, row)
	}
	return rows
}

// Watch regenerates the bootstrap artifact whenever module sources change,
// until ctx is cancelled.
func (a *Application) Watch(ctx context.Context, onBuild func(*bootstrap.Artifact, error)) error {
	opts := a.Options()
	w := bootstrap.NewWatcher(
		a.services.Builder,
		a.projectPath(opts.VarDir),
		a.projectPath(opts.AppDir),
		a.services.Modules,
		a.config.LifecyclerConfig.WatchDebounce,
	)
	return w.Run(ctx, onBuild)
}

// ServerRequest is what the user asked server:run for.
type ServerRequest struct {
	Address     string
	DocRoot     string
	Router      string
	Environment string
	Verbosity   devserver.Verbosity
}

// Launcher creates the development server launcher. Relative paths are
// resolved against the project directory.
func (a *Application) Launcher(req ServerRequest) (*devserver.Launcher, error) {
	php, err := a.services.FindPHP()
	if err != nil {
		return nil, err
	}
	opts := a.Options()

	address := req.Address
	if address == "" {
		address = a.config.LifecyclerConfig.ServerAddress
	}
	docRoot := req.DocRoot
	if docRoot == "" {
		docRoot = opts.WebDir
	}
	router := req.Router
	if router != "" {
		router = a.projectPath(router)
	}

	return devserver.NewLauncher(devserver.Options{
		Address:     address,
		DocRoot:     a.projectPath(docRoot),
		Router:      router,
		AppDir:      a.projectPath(opts.AppDir),
		Environment: req.Environment,
		Verbosity:   req.Verbosity,
		PHP:         php,
	}, a.services.Runner, a.console), nil
}

func (a *Application) projectPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.config.ProjectDir, path)
}
