// Package logging provides subsystem-tagged structured logging for lifecycler.
//
// The package wraps Go's standard slog package. Every record carries a
// "subsystem" attribute so that output from the option resolver, the
// subprocess runner, the bootstrap builder and the lifecycle pipeline can be
// told apart and filtered.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Lifecycle", "Handling %s", event)
//	logging.Debug("Process", "Running %s in %s", cmd, dir)
//	logging.Error("Bootstrap", err, "Failed to write %s", path)
//
// Log records go to the writer given to InitForCLI (stderr for the CLI).
// Human-readable progress meant for the person running a hook is written
// through the console IO sink instead, see internal/cli.
//
// # Subsystems
//
//   - CLI: command setup and exit code mapping
//   - Config: tool config and project manifest loading
//   - Options: option resolution
//   - Process: subprocess execution
//   - Bootstrap: artifact aggregation
//   - Watcher: artifact regeneration on file changes
//   - Lifecycle: event handling and hook dispatch
//   - DevServer: built-in web server launch
//
// The logger is safe for concurrent use.
package logging
