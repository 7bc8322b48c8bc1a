package bootstrap

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolver maps a module identifier such as
// `Symfony\Component\HttpKernel\Kernel` to the file that defines it.
// FindFile must not load or execute anything.
type Resolver interface {
	FindFile(module string) (string, bool)
}

// Chain consults resolvers in registration order; the first hit wins.
type Chain struct {
	resolvers []Resolver
}

// NewChain creates a chain from resolvers in registration order.
func NewChain(resolvers ...Resolver) *Chain {
	c := &Chain{}
	for _, r := range resolvers {
		c.Register(r)
	}
	return c
}

// Register appends a resolver; it is consulted after every earlier one.
func (c *Chain) Register(r Resolver) {
	if r != nil {
		c.resolvers = append(c.resolvers, r)
	}
}

// FindFile implements Resolver.
func (c *Chain) FindFile(module string) (string, bool) {
	for _, r := range c.resolvers {
		if path, ok := r.FindFile(module); ok {
			return path, true
		}
	}
	return "", false
}

// Len returns the number of registered resolvers.
func (c *Chain) Len() int {
	return len(c.resolvers)
}

// ClassMapResolver resolves modules from an explicit identifier to file map.
type ClassMapResolver map[string]string

// FindFile implements Resolver.
func (m ClassMapResolver) FindFile(module string) (string, bool) {
	path, ok := m[strings.TrimPrefix(module, `\`)]
	if !ok {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Style selects how the remainder of an identifier maps to a file path.
type Style int

const (
	// StylePSR4 strips the matched prefix before mapping to a path.
	StylePSR4 Style = iota
	// StylePSR0 keeps the full identifier and maps underscores in the
	// class name to directory separators.
	StylePSR0
)

type prefixEntry struct {
	prefix string
	dirs   []string
	style  Style
}

// PrefixResolver maps namespace prefixes to base directories. The longest
// matching prefix is tried first; within a prefix, directories are tried in
// the order they were added.
type PrefixResolver struct {
	entries   []prefixEntry
	extension string
}

// NewPrefixResolver creates an empty resolver for files with the given
// extension (".php" when empty).
func NewPrefixResolver(extension string) *PrefixResolver {
	if extension == "" {
		extension = ".php"
	}
	return &PrefixResolver{extension: extension}
}

// Add maps a prefix (for example `Acme\`) to one or more directories.
func (p *PrefixResolver) Add(prefix string, style Style, dirs ...string) {
	prefix = strings.TrimPrefix(prefix, `\`)
	for i := range p.entries {
		if p.entries[i].prefix == prefix && p.entries[i].style == style {
			p.entries[i].dirs = append(p.entries[i].dirs, dirs...)
			return
		}
	}
	p.entries = append(p.entries, prefixEntry{prefix: prefix, dirs: dirs, style: style})
	sort.SliceStable(p.entries, func(i, j int) bool {
		return len(p.entries[i].prefix) > len(p.entries[j].prefix)
	})
}

// FindFile implements Resolver.
func (p *PrefixResolver) FindFile(module string) (string, bool) {
	module = strings.TrimPrefix(module, `\`)
	for _, e := range p.entries {
		if !strings.HasPrefix(module, e.prefix) {
			continue
		}
		var rel string
		switch e.style {
		case StylePSR0:
			rel = psr0Path(module)
		default:
			rel = strings.ReplaceAll(strings.TrimPrefix(module, e.prefix), `\`, "/")
		}
		for _, dir := range e.dirs {
			candidate := filepath.Join(dir, filepath.FromSlash(rel)+p.extension)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

func psr0Path(module string) string {
	ns, class := "", module
	if i := strings.LastIndex(module, `\`); i >= 0 {
		ns, class = module[:i+1], module[i+1:]
	}
	return strings.ReplaceAll(ns, `\`, "/") + strings.ReplaceAll(class, "_", "/")
}
