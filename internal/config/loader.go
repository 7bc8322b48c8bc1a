package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	"lifecycler/pkg/logging"
)

const (
	userConfigDir  = ".config/lifecycler"
	configFileName = "config.yaml"
)

// osUserHomeDir is a variable to allow mocking in tests
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns the default configuration directory.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}

	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from the given directory over the defaults.
func LoadConfig(configPath string) (LifecyclerConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig() // Start with default config

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return LifecyclerConfig{}, newConfigurationError(configFilePath, SourceTool, ErrorTypeIO, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return LifecyclerConfig{}, newConfigurationError(configFilePath, SourceTool, ErrorTypeParse, err,
			"Check the YAML syntax of the file",
			"Durations such as watchDebounce take units, for example 300ms")
	}
	if config.BootstrapWrapper != "" && !filepath.IsAbs(config.BootstrapWrapper) {
		config.BootstrapWrapper = filepath.Join(configPath, config.BootstrapWrapper)
	}
	logging.Debug("Config", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// LoadManifest reads the project manifest. A missing file yields an empty
// manifest with an empty Path.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No project manifest at %s, using defaults", path)
			return Manifest{}, nil
		}
		return Manifest{}, newConfigurationError(path, SourceProject, ErrorTypeIO, err)
	}

	var manifest Manifest
	if err := k8syaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, newConfigurationError(path, SourceProject, ErrorTypeParse, err,
			"The manifest must be a JSON or YAML object")
	}
	manifest.Path = path
	logging.Debug("Config", "Loaded project manifest from %s", path)
	return manifest, nil
}

// VendorDir returns the package install directory of the manifest.
func (m Manifest) VendorDir() string {
	if m.Config.VendorDir != "" {
		return m.Config.VendorDir
	}
	return DefaultVendorDir
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ScriptList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = ScriptList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a script or a list of scripts: %w", err)
	}
	*s = many
	return nil
}
