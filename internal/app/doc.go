// Package app wires lifecycler together.
//
// The package follows a two-phase initialization:
//
//  1. Bootstrap (bootstrap.go): initialize logging, load the tool
//     configuration and the project manifest.
//  2. Services (services.go): build the module resolver chain, probe the
//     installed code base once, and assemble the bootstrap builder, the
//     subprocess runner, the lifecycle pipeline and the hook dispatcher.
//
// Commands then use the Application to resolve options, handle events,
// dispatch hooks, watch module sources or launch the development server.
//
// # Resolution order
//
// Module identifiers are looked up in this order, first hit wins:
//
//   - classMap entries of the tool configuration
//   - the project manifest's own autoload section
//   - the autoload sections of installed packages (vendor/composer/installed.json)
package app
