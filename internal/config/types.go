package config

import (
	"time"

	"lifecycler/internal/bootstrap"
)

// LifecyclerConfig is the top-level structure of config.yaml.
type LifecyclerConfig struct {
	LogLevel  string `yaml:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty"`

	// PHPBinary is tried before the environment and PATH.
	PHPBinary string `yaml:"phpBinary,omitempty"`

	// ServerAddress is the default address of server:run.
	ServerAddress string `yaml:"serverAddress,omitempty"`

	WatchDebounce time.Duration `yaml:"watchDebounce,omitempty"`

	// BootstrapWrapper is a template file replacing the artifact layout.
	// Relative paths are resolved against the configuration directory.
	BootstrapWrapper string `yaml:"bootstrapWrapper,omitempty"`

	// UpdateRepository is the GitHub owner/repo that self-update queries for
	// releases.
	UpdateRepository string `yaml:"updateRepository,omitempty"`

	// ClassMap maps module identifiers to files, relative to the project.
	ClassMap map[string]string `yaml:"classMap,omitempty"`
}

// Manifest is the subset of the project manifest lifecycler reads.
type Manifest struct {
	// Path is where the manifest was read from, empty if it does not exist.
	Path string `json:"-"`

	Name     string                `json:"name,omitempty"`
	Extra    map[string]any        `json:"extra,omitempty"`
	Config   ManifestConfig        `json:"config,omitempty"`
	Scripts  map[string]ScriptList `json:"scripts,omitempty"`
	Autoload bootstrap.AutoloadSpec `json:"autoload,omitempty"`
}

// ManifestConfig is the package manager's own configuration block.
type ManifestConfig struct {
	// ProcessTimeout is in seconds; nil when not configured.
	ProcessTimeout *int   `json:"process-timeout,omitempty"`
	VendorDir      string `json:"vendor-dir,omitempty"`
}

// ScriptList accepts a single script or a list of scripts.
type ScriptList []string
