package app

import (
	"lifecycler/internal/config"
	"lifecycler/internal/options"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool

	// ConfigPath is the tool configuration directory.
	ConfigPath string

	// ProjectDir is the project root. Empty means the working directory.
	ProjectDir string

	// ManifestPath is the project manifest, relative to ProjectDir unless
	// absolute. Empty means composer.json.
	ManifestPath string

	// Env reads the process environment. Nil means os.LookupEnv.
	Env options.Environment

	// Loaded configuration, filled during bootstrap unless preset.
	LifecyclerConfig *config.LifecyclerConfig
	Manifest         *config.Manifest
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, projectDir, manifestPath string) *Config {
	return &Config{
		Debug:        debug,
		ConfigPath:   configPath,
		ProjectDir:   projectDir,
		ManifestPath: manifestPath,
	}
}
