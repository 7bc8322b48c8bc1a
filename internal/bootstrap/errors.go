package bootstrap

import (
	"errors"
	"fmt"
)

// ErrModuleNotFound is returned when no resolver knows a module identifier.
var ErrModuleNotFound = errors.New("module could not be resolved")

// BuildError reports why the artifact could not be generated.
type BuildError struct {
	// Module is the identifier being processed, empty for artifact-level failures.
	Module string
	// Path is the file involved, if any.
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	switch {
	case e.Module != "" && e.Path != "":
		return fmt.Sprintf("bootstrap: module %s (%s): %v", e.Module, e.Path, e.Err)
	case e.Module != "":
		return fmt.Sprintf("bootstrap: module %s: %v", e.Module, e.Err)
	case e.Path != "":
		return fmt.Sprintf("bootstrap: %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("bootstrap: %v", e.Err)
	}
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
