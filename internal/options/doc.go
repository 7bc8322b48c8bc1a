// Package options resolves the effective option set for one lifecycle
// invocation.
//
// Three layers are merged shallowly, later layers winning:
//
//	defaults < project overrides (manifest "extra") < environment
//
// Only the assets install mode has an environment override
// (SYMFONY_ASSETS_INSTALL). The process timeout is taken from the package
// manager's own configuration rather than from "extra".
//
// A Set is a value: it is built once per invocation and passed explicitly to
// every step. Nothing in this package holds mutable package-level state.
package options
