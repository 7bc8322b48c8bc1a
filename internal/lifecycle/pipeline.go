package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lifecycler/internal/bootstrap"
	"lifecycler/internal/options"
	"lifecycler/internal/process"
	"lifecycler/pkg/logging"
)

const subsystem = "Lifecycle"

// ConsoleFileName is the console entry point inside the bin directory.
const ConsoleFileName = "console"

// IO is where a pipeline reports to the user.
type IO interface {
	// WriteLine writes one message followed by a newline.
	WriteLine(msg string)
	// Write passes subprocess output through unchanged.
	Write(p []byte)
	// IsDecorated reports whether the sink renders ANSI sequences.
	IsDecorated() bool
	// Progress shows msg until the returned function is called.
	Progress(msg string) (done func())
}

// CommandRunner runs console subprocesses. *process.Runner satisfies it.
type CommandRunner interface {
	Run(ctx context.Context, cmd process.Command, onChunk func(process.Chunk)) process.Result
}

// ArtifactBuilder generates the bootstrap artifact. *bootstrap.Builder
// satisfies it.
type ArtifactBuilder interface {
	Build(outputDir, autoloadDir string, modules []string) (*bootstrap.Artifact, error)
}

// Outcome is the result of one Handle call.
type Outcome struct {
	Event Event
	State State
	// Trace lists every state the run entered, starting with Idle.
	Trace []State

	// Skipped is set when a soft precondition turned the run into a no-op.
	Skipped    bool
	Diagnostic string

	// Command is the executed command line, if any.
	Command  string
	Artifact *bootstrap.Artifact
	Err      error
}

func (o *Outcome) enter(s State) {
	o.State = s
	o.Trace = append(o.Trace, s)
}

// Pipeline executes lifecycle events.
type Pipeline struct {
	Runner  CommandRunner
	Builder ArtifactBuilder
	// FindPHP locates the interpreter for console commands.
	FindPHP func() (string, error)
	IO      IO

	// Dir is the project directory. Option directories are relative to it
	// and console commands run in it. Empty means the working directory.
	Dir string

	// Modules is the ordered list aggregated by BuildBootstrap.
	Modules []string
}

// Handle runs one event with the given options. The returned outcome's Err
// is a *StepError for fatal failures.
func (p *Pipeline) Handle(ctx context.Context, event Event, opts options.Set) Outcome {
	out := Outcome{Event: event}
	out.enter(Idle)

	dir, err := p.projectDir()
	if err != nil {
		return p.fail(out, fmt.Errorf("resolving project directory: %w", err))
	}

	out.enter(Validating)
	if event.RequiredDirs() == nil {
		return p.fail(out, fmt.Errorf("%w: %q", ErrUnknownEvent, event))
	}
	for _, pre := range CheckPreconditions(dir, event, opts) {
		if !pre.Exists {
			out.Skipped = true
			out.Diagnostic = fmt.Sprintf("The %s (%s) specified in composer.json was not found in %s, can not %s.", pre.Key, pre.Path, dir, event.Action())
			p.IO.WriteLine(out.Diagnostic)
			logging.Info(subsystem, "Skipping %s: %s %q does not exist", event, pre.Key, pre.Path)
			out.enter(Succeeded)
			return out
		}
	}

	out.enter(Executing)
	logging.Debug(subsystem, "Executing %s", event)
	switch event {
	case BuildBootstrap:
		err = p.buildBootstrap(dir, opts, &out)
	case ClearCache:
		args := []string{"cache:clear"}
		if !opts.CacheWarmup {
			args = append(args, "--no-warmup")
		}
		err = p.runConsole(ctx, event, dir, opts.BinDir, args, opts.ProcessTimeout, &out)
	case InstallAssets:
		args := []string{"assets:install"}
		args = append(args, options.SymlinkFlags(opts.AssetsInstallMode)...)
		args = append(args, opts.WebDir)
		// assets:install always runs with the package manager's default
		// timeout, not the configured one.
		timeout := options.DefaultProcessTimeout
		err = p.runConsole(ctx, event, dir, opts.BinDir, args, &timeout, &out)
	}
	if err != nil {
		return p.fail(out, err)
	}

	out.enter(Succeeded)
	logging.Info(subsystem, "%s succeeded", event)
	return out
}

func (p *Pipeline) buildBootstrap(dir string, opts options.Set, out *Outcome) error {
	done := p.IO.Progress("Building bootstrap file")
	artifact, err := p.Builder.Build(resolve(dir, opts.VarDir), resolve(dir, opts.AppDir), p.Modules)
	done()
	if err != nil {
		return buildFailed(err)
	}
	out.Artifact = artifact
	logging.Debug(subsystem, "Wrote %s with %d modules", artifact.Path, len(artifact.Modules))
	return nil
}

func (p *Pipeline) runConsole(ctx context.Context, event Event, dir, binDir string, sub []string, timeout *time.Duration, out *Outcome) error {
	php, err := p.FindPHP()
	if err != nil {
		return toolMissing(event, err)
	}

	args := []string{filepath.Join(binDir, ConsoleFileName)}
	if p.IO.IsDecorated() {
		args = append(args, "--ansi")
	}
	args = append(args, sub...)

	cmd := process.Command{
		Executable: php,
		Args:       args,
		Dir:        dir,
		Timeout:    timeout,
	}
	out.Command = cmd.String()

	result := p.Runner.Run(ctx, cmd, func(c process.Chunk) { p.IO.Write(c.Data) })
	if !result.Success() {
		err := result.Err
		if err == nil {
			err = fmt.Errorf("exit code %d", result.ExitCode)
		}
		return commandFailed(event, strings.Join(sub, " "), err)
	}
	return nil
}

func (p *Pipeline) fail(out Outcome, err error) Outcome {
	out.Err = err
	out.enter(Failed)
	logging.Error(subsystem, err, "%s failed", out.Event)
	return out
}

func (p *Pipeline) projectDir() (string, error) {
	if p.Dir != "" {
		return filepath.Abs(p.Dir)
	}
	return os.Getwd()
}

// Precondition is the state of one required directory.
type Precondition struct {
	Key    string
	Path   string
	Exists bool
}

// CheckPreconditions reports the required directories of event, relative to
// dir, in the order they are checked.
func CheckPreconditions(dir string, event Event, opts options.Set) []Precondition {
	keys := event.RequiredDirs()
	result := make([]Precondition, 0, len(keys))
	for _, key := range keys {
		path, _ := opts.Dir(key)
		result = append(result, Precondition{Key: key, Path: path, Exists: isDir(resolve(dir, path))})
	}
	return result
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
