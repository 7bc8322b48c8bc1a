// Package config loads the two configuration sources lifecycler reads.
//
// # Tool configuration
//
// The tool's own settings live in config.yaml inside the configuration
// directory (default ~/.config/lifecycler, overridable with --config-path):
//
//	logLevel: warn            # debug, info, warn, error
//	logFormat: text           # text or json
//	phpBinary: /usr/bin/php   # tried before PHP_BINARY, PHP_PATH and PATH
//	serverAddress: 127.0.0.1:8000
//	watchDebounce: 300ms
//	bootstrapWrapper: ""      # optional template file for the artifact layout
//	classMap:                 # explicit module -> file entries, consulted first
//	  Acme\Kernel: src/Kernel.php
//
// A missing file means defaults. The file is decoded with gopkg.in/yaml.v3
// over GetDefaultConfig, so only the keys present are overridden.
//
// # Project manifest
//
// The project manifest is the package manager's manifest (composer.json by
// default). Both JSON and YAML are accepted. lifecycler reads:
//
//   - extra: option overrides (app-dir, web-dir, bin-dir, var-dir,
//     assets-install-mode, cache-warmup)
//   - config.process-timeout: subprocess timeout in seconds
//   - scripts: hook name to an ordered list of lifecycle events
//   - autoload: the root package's autoload prefixes
//
// A missing manifest yields an empty one.
package config
