package lifecycle

import (
	"errors"
	"fmt"

	"lifecycler/internal/process"
)

// ErrUnknownEvent is returned for events the pipeline does not handle.
var ErrUnknownEvent = errors.New("unknown lifecycle event")

// ErrHookNotDefined is returned when the manifest has no scripts for a hook.
var ErrHookNotDefined = errors.New("hook is not defined in the project manifest")

// StepError is a fatal failure of one event.
type StepError struct {
	Event Event
	// Command is the console subcommand that failed, empty for in-process steps.
	Command string
	Message string
	Err     error
}

func (e *StepError) Error() string {
	return e.Message
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func commandFailed(event Event, command string, err error) *StepError {
	return &StepError{
		Event:   event,
		Command: command,
		Message: fmt.Sprintf("An error occurred when executing the \"%s\" command.", command),
		Err:     err,
	}
}

func buildFailed(err error) *StepError {
	return &StepError{
		Event:   BuildBootstrap,
		Message: "An error occurred when generating the bootstrap file.",
		Err:     err,
	}
}

func toolMissing(event Event, err error) *StepError {
	msg := err.Error()
	if errors.Is(err, process.ErrExecutableNotFound) {
		msg = process.ErrExecutableNotFound.Error()
	}
	return &StepError{Event: event, Message: msg, Err: err}
}
