// Package process runs external commands for lifecycle steps and the
// development server.
//
// Runner.Run blocks the caller until the child exits or its timeout elapses.
// Standard output and standard error are read concurrently and handed to the
// caller's chunk callback on the calling goroutine, in arrival order. A
// non-zero exit is reported through Result, never as a Go error: deciding
// whether a failure is fatal is the caller's job.
//
// On unix the child runs in its own process group so that a timeout or a
// cancelled context terminates the whole tree.
package process
