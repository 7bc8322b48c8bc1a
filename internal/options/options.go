package options

import (
	"fmt"
	"strconv"
	"time"

	"lifecycler/pkg/logging"
)

const subsystem = "Options"

// Option keys as they appear in the manifest's "extra" section.
const (
	KeyAppDir            = "app-dir"
	KeyWebDir            = "web-dir"
	KeyBinDir            = "bin-dir"
	KeyVarDir            = "var-dir"
	KeyAssetsInstallMode = "assets-install-mode"
	KeyCacheWarmup       = "cache-warmup"
	KeyProcessTimeout    = "process-timeout"
)

// legacyKeys maps option keys to the names older manifests use. A bare key
// wins over its legacy name.
var legacyKeys = map[string]string{
	KeyAppDir:            "symfony-app-dir",
	KeyWebDir:            "symfony-web-dir",
	KeyBinDir:            "symfony-bin-dir",
	KeyVarDir:            "symfony-var-dir",
	KeyAssetsInstallMode: "symfony-assets-install",
	KeyCacheWarmup:       "symfony-cache-warmup",
}

// AssetsInstallEnvVar overrides the assets install mode when set to a non-empty value.
const AssetsInstallEnvVar = "SYMFONY_ASSETS_INSTALL"

// DefaultProcessTimeout is the package manager's default process timeout.
const DefaultProcessTimeout = 300 * time.Second

// AssetsInstallMode selects how public assets are installed into the web directory.
type AssetsInstallMode string

const (
	AssetsHard     AssetsInstallMode = "hard"
	AssetsSymlink  AssetsInstallMode = "symlink"
	AssetsRelative AssetsInstallMode = "relative"
)

// Set is the effective option record for one invocation.
type Set struct {
	AppDir            string
	WebDir            string
	BinDir            string
	VarDir            string
	AssetsInstallMode AssetsInstallMode
	CacheWarmup       bool

	// ProcessTimeout bounds console subprocesses. Nil means unlimited.
	ProcessTimeout *time.Duration
}

// Defaults returns the default option set.
func Defaults() Set {
	timeout := DefaultProcessTimeout
	return Set{
		AppDir:            "app",
		WebDir:            "web",
		BinDir:            "bin",
		VarDir:            "var",
		AssetsInstallMode: AssetsHard,
		CacheWarmup:       false,
		ProcessTimeout:    &timeout,
	}
}

// Dir returns the directory named by a directory option key.
func (s Set) Dir(key string) (string, error) {
	switch key {
	case KeyAppDir:
		return s.AppDir, nil
	case KeyWebDir:
		return s.WebDir, nil
	case KeyBinDir:
		return s.BinDir, nil
	case KeyVarDir:
		return s.VarDir, nil
	default:
		return "", fmt.Errorf("option %q does not name a directory", key)
	}
}

// Map renders the set back into manifest-style keys, mostly for display.
func (s Set) Map() map[string]any {
	m := map[string]any{
		KeyAppDir:            s.AppDir,
		KeyWebDir:            s.WebDir,
		KeyBinDir:            s.BinDir,
		KeyVarDir:            s.VarDir,
		KeyAssetsInstallMode: string(s.AssetsInstallMode),
		KeyCacheWarmup:       s.CacheWarmup,
		KeyProcessTimeout:    nil,
	}
	if s.ProcessTimeout != nil {
		m[KeyProcessTimeout] = int(s.ProcessTimeout.Seconds())
	}
	return m
}

// Environment looks up environment variables. os.LookupEnv satisfies it.
type Environment func(key string) (string, bool)

// Resolve merges defaults, project overrides and environment overrides into
// a single Set. Project overrides replace defaults key by key; a value of the
// wrong type is ignored and the default kept. Legacy "symfony-" keys are read
// when the bare key is absent. processTimeout is the package
// manager's configured timeout in seconds; nil keeps the default and a value
// <= 0 means unlimited.
func Resolve(defaults Set, project map[string]any, processTimeout *int, env Environment) Set {
	resolved := defaults

	if v, ok := stringValue(project, KeyAppDir); ok {
		resolved.AppDir = v
	}
	if v, ok := stringValue(project, KeyWebDir); ok {
		resolved.WebDir = v
	}
	if v, ok := stringValue(project, KeyBinDir); ok {
		resolved.BinDir = v
	}
	if v, ok := stringValue(project, KeyVarDir); ok {
		resolved.VarDir = v
	}
	if v, ok := stringValue(project, KeyAssetsInstallMode); ok {
		resolved.AssetsInstallMode = AssetsInstallMode(v)
	}
	if v, ok := boolValue(project, KeyCacheWarmup); ok {
		resolved.CacheWarmup = v
	}

	if env != nil {
		if v, ok := env(AssetsInstallEnvVar); ok && v != "" {
			logging.Debug(subsystem, "%s=%s overrides %s", AssetsInstallEnvVar, v, KeyAssetsInstallMode)
			resolved.AssetsInstallMode = AssetsInstallMode(v)
		}
	}

	if processTimeout != nil {
		if *processTimeout <= 0 {
			resolved.ProcessTimeout = nil
		} else {
			d := time.Duration(*processTimeout) * time.Second
			resolved.ProcessTimeout = &d
		}
	}

	return resolved
}

// SymlinkFlags returns the assets:install flags for a mode. Unknown modes
// behave like hard copies and produce no flag.
func SymlinkFlags(mode AssetsInstallMode) []string {
	switch mode {
	case AssetsSymlink:
		return []string{"--symlink"}
	case AssetsRelative:
		return []string{"--symlink", "--relative"}
	default:
		return nil
	}
}

// lookup returns the project value for key, falling back to its legacy name.
func lookup(m map[string]any, key string) (raw any, name string, ok bool) {
	legacy, hasLegacy := legacyKeys[key]
	if raw, ok = m[key]; ok && raw != nil {
		if hasLegacy {
			if _, shadowed := m[legacy]; shadowed {
				logging.Warn(subsystem, "Ignoring %s: %s is also set", legacy, key)
			}
		}
		return raw, key, true
	}
	if hasLegacy {
		if raw, ok = m[legacy]; ok && raw != nil {
			logging.Debug(subsystem, "Reading %s from legacy key %s", key, legacy)
			return raw, legacy, true
		}
	}
	return nil, key, false
}

func stringValue(m map[string]any, key string) (string, bool) {
	raw, key, ok := lookup(m, key)
	if !ok {
		return "", false
	}
	v, ok := raw.(string)
	if !ok {
		logging.Warn(subsystem, "Ignoring %s: expected a string, got %T", key, raw)
		return "", false
	}
	return v, true
}

func boolValue(m map[string]any, key string) (bool, bool) {
	raw, key, ok := lookup(m, key)
	if !ok {
		return false, false
	}
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		// Manifests written by hand sometimes quote booleans.
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b, true
		}
	}
	logging.Warn(subsystem, "Ignoring %s: expected a boolean, got %T", key, raw)
	return false, false
}
