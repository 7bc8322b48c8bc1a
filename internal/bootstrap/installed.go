package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"sigs.k8s.io/yaml"

	"lifecycler/pkg/logging"
)

// PathList accepts either a single path or a list of paths.
type PathList []string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PathList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = PathList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a path or a list of paths: %w", err)
	}
	*p = many
	return nil
}

// AutoloadSpec is the autoload section of a package manifest.
type AutoloadSpec struct {
	PSR4 map[string]PathList `json:"psr-4,omitempty"`
	PSR0 map[string]PathList `json:"psr-0,omitempty"`
}

// AddTo registers the package's prefixes on p, with paths relative to baseDir.
// Prefixes are added in sorted order so that resolution does not depend on
// map iteration.
func (a AutoloadSpec) AddTo(p *PrefixResolver, baseDir string) {
	add := func(m map[string]PathList, style Style) {
		prefixes := make([]string, 0, len(m))
		for prefix := range m {
			prefixes = append(prefixes, prefix)
		}
		sort.Strings(prefixes)
		for _, prefix := range prefixes {
			dirs := make([]string, 0, len(m[prefix]))
			for _, d := range m[prefix] {
				dirs = append(dirs, filepath.Join(baseDir, filepath.FromSlash(d)))
			}
			p.Add(prefix, style, dirs...)
		}
	}
	add(a.PSR4, StylePSR4)
	add(a.PSR0, StylePSR0)
}

type installedPackage struct {
	Name        string       `json:"name"`
	InstallPath string       `json:"install-path"`
	Autoload    AutoloadSpec `json:"autoload"`
}

// LoadInstalled reads vendor/composer/installed.json and registers the
// autoload prefixes of every installed package on p. A missing file is not
// an error: the project simply has no installed packages yet.
func LoadInstalled(p *PrefixResolver, vendorDir string) (int, error) {
	path := filepath.Join(vendorDir, "composer", "installed.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug(subsystem, "No installed packages index at %s", path)
			return 0, nil
		}
		return 0, err
	}

	packages, err := decodeInstalled(data)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", path, err)
	}

	for _, pkg := range packages {
		dir := filepath.Join(vendorDir, filepath.FromSlash(pkg.Name))
		if pkg.InstallPath != "" {
			dir = filepath.Join(vendorDir, "composer", filepath.FromSlash(pkg.InstallPath))
		}
		pkg.Autoload.AddTo(p, dir)
	}
	logging.Debug(subsystem, "Registered autoload prefixes of %d installed packages", len(packages))
	return len(packages), nil
}

// decodeInstalled accepts both index layouts: a bare list of packages and
// an object with a "packages" list.
func decodeInstalled(data []byte) ([]installedPackage, error) {
	var wrapped struct {
		Packages []installedPackage `json:"packages"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err == nil && wrapped.Packages != nil {
		return wrapped.Packages, nil
	}
	var list []installedPackage
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
