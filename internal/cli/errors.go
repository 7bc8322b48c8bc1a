package cli

import "fmt"

// ExitError ends the program with a specific exit code. Message has already
// been shown to the user when it is empty.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error returns the message, or a generic description of the exit code.
func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Silent reports whether the error was already reported to the user.
func (e *ExitError) Silent() bool {
	return e.Message == "" && e.Err == nil
}
