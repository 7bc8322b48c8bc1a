package config

import "time"

const (
	// DefaultServerAddress is where server:run listens unless told otherwise.
	DefaultServerAddress = "127.0.0.1:8000"

	// DefaultManifestFileName is the project manifest looked up in the project directory.
	DefaultManifestFileName = "composer.json"

	// DefaultVendorDir is the package install directory, relative to the project.
	DefaultVendorDir = "vendor"
)

// GetDefaultConfig returns default configuration
func GetDefaultConfig() LifecyclerConfig {
	return LifecyclerConfig{
		LogLevel:      "warn",
		LogFormat:     "text",
		ServerAddress: DefaultServerAddress,
		WatchDebounce: 300 * time.Millisecond,
	}
}
