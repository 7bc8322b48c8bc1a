// Package cli provides the console layer of lifecycler.
//
// Console is the human-readable sink shared by the lifecycle pipeline and
// the development server. It decides once whether its output is decorated
// (a terminal), which controls colours, spinners and the --ansi flag passed
// to console subprocesses.
//
// StepsTable renders the lifecycle events with their required directories
// using go-pretty.
//
// ExitError carries an explicit process exit code up to the root command.
package cli
