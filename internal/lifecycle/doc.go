// Package lifecycle turns package-manager lifecycle events into build steps.
//
// A Pipeline handles one Event at a time. Each run walks the states
// Idle, Validating, Executing and ends in Succeeded or Failed:
//
//	Idle -> Validating -> Executing -> Succeeded
//	             |             |
//	             v             v
//	         Succeeded       Failed
//
// A required directory that does not exist is a soft precondition failure:
// a diagnostic is written and the run succeeds without touching the
// filesystem. Subprocess failures, build failures and a missing interpreter
// are fatal and surface as *StepError.
//
// A Dispatcher maps hook names such as post-install-cmd to the ordered
// events listed in the project manifest and stops at the first fatal error.
package lifecycle
