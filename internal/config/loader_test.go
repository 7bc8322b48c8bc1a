package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetDefaultConfigPath(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()

	osUserHomeDir = func() (string, error) { return "/home/dev", nil }
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dev", ".config", "lifecycler"), path)

	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	_, err = GetDefaultConfigPath()
	assert.Error(t, err)
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	loaded, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loaded)
}

func TestLoadConfig_Override(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, `
logLevel: debug
phpBinary: /opt/php/bin/php
watchDebounce: 1s
bootstrapWrapper: wrapper.tmpl
classMap:
  Acme\Kernel: src/Kernel.php
`)

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", loaded.LogLevel)
	assert.Equal(t, "text", loaded.LogFormat, "keys not present keep their default")
	assert.Equal(t, "/opt/php/bin/php", loaded.PHPBinary)
	assert.Equal(t, DefaultServerAddress, loaded.ServerAddress)
	assert.Equal(t, time.Second, loaded.WatchDebounce)
	assert.Equal(t, filepath.Join(dir, "wrapper.tmpl"), loaded.BootstrapWrapper)
	assert.Equal(t, "src/Kernel.php", loaded.ClassMap[`Acme\Kernel`])
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileName, "logLevel: [unterminated\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, SourceTool, cfgErr.Source)
	assert.Equal(t, ErrorTypeParse, cfgErr.ErrorType)
	assert.Equal(t, configFileName, cfgErr.FileName)
	assert.Contains(t, cfgErr.DetailedError(), "Suggestions:")
}

func TestLoadManifest_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "composer.json", `{
  "name": "acme/standard",
  "autoload": {"psr-4": {"Acme\\": "src/"}},
  "scripts": {
    "post-install-cmd": [
      "Symfony\\Bundle\\MinimalBundle\\Composer\\ScriptHandler::buildBootstrap",
      "clear-cache"
    ],
    "post-update-cmd": "install-assets"
  },
  "config": {"process-timeout": 600, "vendor-dir": "lib/vendor"},
  "extra": {
    "web-dir": "public",
    "cache-warmup": true
  }
}`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, path, m.Path)
	assert.Equal(t, "acme/standard", m.Name)
	assert.Equal(t, "public", m.Extra["web-dir"])
	assert.Equal(t, true, m.Extra["cache-warmup"])
	require.NotNil(t, m.Config.ProcessTimeout)
	assert.Equal(t, 600, *m.Config.ProcessTimeout)
	assert.Equal(t, "lib/vendor", m.VendorDir())
	assert.Equal(t, ScriptList{`Symfony\Bundle\MinimalBundle\Composer\ScriptHandler::buildBootstrap`, "clear-cache"}, m.Scripts["post-install-cmd"])
	assert.Equal(t, ScriptList{"install-assets"}, m.Scripts["post-update-cmd"])
	assert.Equal(t, []string{"src/"}, []string(m.Autoload.PSR4[`Acme\`]))
}

func TestLoadManifest_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lifecycle.yaml", `
extra:
  var-dir: storage
scripts:
  deploy: [build-bootstrap, install-assets]
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "storage", m.Extra["var-dir"])
	assert.Equal(t, ScriptList{"build-bootstrap", "install-assets"}, m.Scripts["deploy"])
	assert.Nil(t, m.Config.ProcessTimeout)
	assert.Equal(t, DefaultVendorDir, m.VendorDir())
}

func TestLoadManifest_Missing(t *testing.T) {
	m, err := LoadManifest(filepath.Join(t.TempDir(), "composer.json"))
	require.NoError(t, err)
	assert.Empty(t, m.Path)
	assert.Nil(t, m.Extra)
}

func TestLoadManifest_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "composer.json", `{"extra": [`)

	_, err := LoadManifest(path)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, SourceProject, cfgErr.Source)
}
