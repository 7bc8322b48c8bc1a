package process

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrExecutableNotFound is returned when no interpreter binary can be located.
var ErrExecutableNotFound = errors.New("The php executable could not be found, add it to your PATH environment variable and try again")

// lookPath is a variable to allow mocking in tests
var lookPath = exec.LookPath

// LookupEnv reads an environment variable. os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

// phpEnvVars are consulted in order before falling back to PATH.
var phpEnvVars = []string{"PHP_BINARY", "PHP_PATH", "PHP_PEAR_PHP_BIN"}

// FindPHP locates the php executable. A non-empty preferred path (from the
// tool config) is tried first, then the PHP_BINARY, PHP_PATH and
// PHP_PEAR_PHP_BIN variables, then "php" on PATH.
func FindPHP(preferred string, env LookupEnv) (string, error) {
	var candidates []string
	if preferred != "" {
		candidates = append(candidates, preferred)
	}
	if env != nil {
		for _, name := range phpEnvVars {
			if v, ok := env(name); ok && v != "" {
				candidates = append(candidates, v)
			}
		}
	}
	candidates = append(candidates, "php")

	for _, c := range candidates {
		path, err := lookPath(c)
		if err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w (tried %v)", ErrExecutableNotFound, candidates)
}
