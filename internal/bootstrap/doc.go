// Package bootstrap generates the aggregated bootstrap artifact.
//
// The artifact is one file that, when loaded, boots the autoloader and
// defines a fixed, ordered list of modules, so the application does a single
// file read at startup instead of dozens. Building it takes three steps:
//
//  1. remove any previous artifact (the build replaces, it never updates)
//  2. resolve each module identifier to its source file through a Resolver
//     chain where the first resolver that knows the module wins
//  3. rewrite each body's namespace declaration into braced form so the
//     bodies can be concatenated, then wrap the result between a line that
//     requires the autoloader and a line that returns the loader handle
//
// The module order is positional: a module may rely on any module listed
// before it, and nothing reorders the list.
//
// Watcher rebuilds the artifact whenever a resolved source changes.
package bootstrap
