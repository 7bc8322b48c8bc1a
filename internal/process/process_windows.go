//go:build windows

package process

import (
	"os/exec"
	"time"
)

// configureProcAttr keeps the default behaviour on windows: cancellation
// kills the direct child only.
func configureProcAttr(cmd *exec.Cmd, grace time.Duration) (stop func()) {
	return func() {}
}
