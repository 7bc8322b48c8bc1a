package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lifecycler/pkg/logging"
)

const subsystem = "Process"

// execCommandContext is a variable to allow mocking in tests
var execCommandContext = exec.CommandContext

// killGrace is how long a timed-out process group has to exit after SIGTERM
// before it is sent SIGKILL.
var killGrace = 2 * time.Second

// waitDelay bounds how long Wait blocks on output pipes after the child was
// signalled. It covers descendants that left the process group.
var waitDelay = 5 * time.Second

const chunkSize = 32 * 1024

// Stream identifies which child stream a chunk came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Chunk is one read from a child's output stream.
type Chunk struct {
	Stream Stream
	Data   []byte
}

// Command describes one subprocess invocation.
type Command struct {
	Executable string
	Args       []string
	Dir        string

	// Timeout bounds the run. Nil waits forever.
	Timeout *time.Duration

	// Env entries (KEY=value) are appended to the inherited environment.
	Env []string

	// DisableOutput discards the child's output instead of streaming it.
	DisableOutput bool

	// Capture keeps a copy of the interleaved output in Result.Output.
	Capture bool
}

// String renders the command line with shell quoting, for messages.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, Quote(c.Executable))
	for _, a := range c.Args {
		parts = append(parts, Quote(a))
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of one Run.
type Result struct {
	// ExitCode is the child's exit code, or -1 if it never started, timed
	// out or was killed by a signal.
	ExitCode int

	// Output is the captured output when Command.Capture was set.
	Output []byte

	TimedOut bool

	// Err describes a launch failure, a timeout or a wait failure.
	Err error
}

// Success reports whether the child ran and exited with code 0.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner executes commands. The zero value is ready to use.
type Runner struct{}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts the command and blocks until it exits, the timeout elapses or
// ctx is cancelled. onChunk may be nil.
func (r *Runner) Run(ctx context.Context, cmd Command, onChunk func(Chunk)) Result {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if cmd.Timeout != nil {
		runCtx, cancel = context.WithTimeout(ctx, *cmd.Timeout)
	}
	defer cancel()

	c := execCommandContext(runCtx, cmd.Executable, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		base := c.Env
		if base == nil {
			base = os.Environ()
		}
		c.Env = append(base, cmd.Env...)
	}
	stopKill := configureProcAttr(c, killGrace)
	defer stopKill()
	c.WaitDelay = waitDelay

	logging.Debug(subsystem, "Running %s (dir=%q, timeout=%s)", cmd, cmd.Dir, describeTimeout(cmd.Timeout))

	var output []byte
	var readErr error
	var waitErr error

	if cmd.DisableOutput {
		if err := c.Start(); err != nil {
			return startFailure(cmd, err)
		}
		waitErr = c.Wait()
	} else {
		// exec copies into the pipe writers itself, so WaitDelay can abandon
		// output held open by an escaped descendant.
		stdoutR, stdoutW := io.Pipe()
		stderrR, stderrW := io.Pipe()
		c.Stdout = stdoutW
		c.Stderr = stderrW
		if err := c.Start(); err != nil {
			stdoutW.Close()
			stderrW.Close()
			return startFailure(cmd, err)
		}

		chunks := make(chan Chunk)
		var g errgroup.Group
		g.Go(func() error { return pump(stdoutR, Stdout, chunks) })
		g.Go(func() error { return pump(stderrR, Stderr, chunks) })
		g.Go(func() error {
			waitErr = c.Wait()
			stdoutW.Close()
			stderrW.Close()
			return nil
		})
		done := make(chan struct{})
		go func() {
			readErr = g.Wait()
			close(chunks)
			close(done)
		}()

		for chunk := range chunks {
			if cmd.Capture {
				output = append(output, chunk.Data...)
			}
			if onChunk != nil {
				onChunk(chunk)
			}
		}
		<-done
	}

	result := Result{ExitCode: 0, Output: output}

	if waitErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
			result.ExitCode = -1
			result.TimedOut = true
			result.Err = fmt.Errorf("process %s exceeded the timeout of %s", cmd, describeTimeout(cmd.Timeout))
		case errors.As(waitErr, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			if result.ExitCode < 0 {
				result.Err = fmt.Errorf("process %s was terminated: %w", cmd, waitErr)
			}
		default:
			result.ExitCode = -1
			result.Err = fmt.Errorf("waiting for %s: %w", cmd, waitErr)
		}
	}
	if readErr != nil && result.Err == nil {
		logging.Warn(subsystem, "Reading output of %s: %v", cmd, readErr)
	}

	logging.Debug(subsystem, "%s exited with code %d", cmd, result.ExitCode)
	return result
}

func pump(r io.Reader, stream Stream, out chan<- Chunk) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			out <- Chunk{Stream: stream, Data: data}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func startFailure(cmd Command, err error) Result {
	logging.Debug(subsystem, "Failed to start %s: %v", cmd, err)
	return Result{ExitCode: -1, Err: fmt.Errorf("failed to start %s: %w", cmd, err)}
}

func describeTimeout(t *time.Duration) string {
	if t == nil {
		return "none"
	}
	return t.String()
}

// Quote returns s quoted for a POSIX shell when it contains anything beyond
// a conservative set of safe characters.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=@%+,", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
