package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// Console writes progress and messages for humans.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	decorated bool
	quiet     bool
}

// fileDescriptor is implemented by *os.File.
type fileDescriptor interface {
	Fd() uintptr
}

// isTerminal is a variable to allow mocking in tests
var isTerminal = term.IsTerminal

// NewConsole creates a Console writing to out and errOut. Output is
// decorated when out is a terminal and NO_COLOR is not set.
func NewConsole(out, errOut io.Writer) *Console {
	decorated := false
	if f, ok := out.(fileDescriptor); ok && os.Getenv("NO_COLOR") == "" {
		decorated = isTerminal(int(f.Fd()))
	}
	return &Console{out: out, errOut: errOut, decorated: decorated}
}

// NewStdConsole writes to the process's standard streams.
func NewStdConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr)
}

// SetDecorated forces decoration on or off.
func (c *Console) SetDecorated(decorated bool) {
	c.decorated = decorated
}

// SetQuiet suppresses progress indicators.
func (c *Console) SetQuiet(quiet bool) {
	c.quiet = quiet
}

// IsDecorated reports whether ANSI sequences are rendered.
func (c *Console) IsDecorated() bool {
	return c.decorated
}

// WriteLine writes msg and a newline to standard output.
func (c *Console) WriteLine(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}

// Write passes raw bytes to standard output.
func (c *Console) Write(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.out.Write(p)
}

// ErrorLine writes msg to the error stream, in red when decorated.
func (c *Console) ErrorLine(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.errOut, c.colorize(text.FgRed, msg))
}

// Success writes a success line to standard output.
func (c *Console) Success(msg string) {
	c.WriteLine(c.colorize(text.FgGreen, FormatSuccess(msg)))
}

// Warning writes a warning line to the error stream.
func (c *Console) Warning(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.errOut, c.colorize(text.FgYellow, FormatWarning(msg)))
}

// Progress shows a spinner with msg on a decorated console until done is
// called. Undecorated consoles print nothing.
func (c *Console) Progress(msg string) (done func()) {
	if !c.decorated || c.quiet {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.errOut))
	s.Suffix = " " + msg + "..."
	s.Start()
	var once sync.Once
	return func() { once.Do(s.Stop) }
}

func (c *Console) colorize(color text.Color, msg string) string {
	if !c.decorated {
		return msg
	}
	return color.Sprint(msg)
}
