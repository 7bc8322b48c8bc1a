//go:build !windows

package process

import (
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// configureProcAttr runs the child in its own process group and makes
// context cancellation signal the whole group. The group gets SIGTERM first
// and SIGKILL once grace has passed. The returned stop must be called after
// Wait so that a pending SIGKILL never hits a recycled group id.
func configureProcAttr(cmd *exec.Cmd, grace time.Duration) (stop func()) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	var mu sync.Mutex
	var timer *time.Timer
	stopped := false

	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		pgid := cmd.Process.Pid
		// Negative PID addresses the process group.
		if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil {
			return cmd.Process.Kill()
		}
		mu.Lock()
		defer mu.Unlock()
		if !stopped {
			timer = time.AfterFunc(grace, func() {
				_ = syscall.Kill(-pgid, syscall.SIGKILL)
			})
		}
		return nil
	}

	return func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
	}
}
