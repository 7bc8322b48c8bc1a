package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"lifecycler/pkg/logging"
)

const subsystem = "Bootstrap"

// ArtifactFileName is the artifact's name inside the output directory.
const ArtifactFileName = "bootstrap.cache"

// AutoloadFileName is the autoloader entry point inside the autoload directory.
const AutoloadFileName = "autoload.php"

// DefaultWrapper is the layout of the generated file. The trailing newline
// and indentation after the final block are part of the format.
const DefaultWrapper = `<?php

namespace { $loader = require_once __DIR__.'/{{ .AutoloadPath }}` + AutoloadFileName + `'; }

{{ .Body }}

namespace { return $loader; }
            `

// Artifact describes one generated bootstrap file.
type Artifact struct {
	// Modules are the aggregated identifiers, in output order.
	Modules []string
	// Sources are the resolved files, parallel to Modules.
	Sources []string
	// Path is the absolute path of the written file.
	Path string
}

// wrapperData is the template context of the wrapper.
type wrapperData struct {
	// AutoloadPath is the autoload directory relative to the output
	// directory, with a trailing slash, or empty.
	AutoloadPath string
	Body         string
	Modules      []string
}

// Builder aggregates modules into the bootstrap artifact.
type Builder struct {
	resolver Resolver
	wrapper  *template.Template
}

// NewBuilder creates a Builder that resolves modules through r and uses the
// default wrapper layout.
func NewBuilder(r Resolver) *Builder {
	b, err := NewBuilderWithWrapper(r, DefaultWrapper)
	if err != nil {
		panic(fmt.Errorf("bootstrap: default wrapper does not parse: %w", err))
	}
	return b
}

// NewBuilderWithWrapper creates a Builder with a custom wrapper template.
// Templates have the sprig function library available.
func NewBuilderWithWrapper(r Resolver, wrapper string) (*Builder, error) {
	tmpl, err := template.New("bootstrap").Funcs(sprig.TxtFuncMap()).Parse(wrapper)
	if err != nil {
		return nil, fmt.Errorf("parsing bootstrap wrapper: %w", err)
	}
	return &Builder{resolver: r, wrapper: tmpl}, nil
}

// Build regenerates outputDir/bootstrap.cache from modules. Any previous
// artifact is removed first, so a failed build leaves no artifact behind.
// autoloadDir may be empty, in which case the autoloader is expected next to
// the artifact.
func (b *Builder) Build(outputDir, autoloadDir string, modules []string) (*Artifact, error) {
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, &BuildError{Path: outputDir, Err: err}
	}
	file := filepath.Join(absOut, ArtifactFileName)

	if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &BuildError{Path: file, Err: fmt.Errorf("removing previous artifact: %w", err)}
	}

	artifact := &Artifact{
		Modules: append([]string(nil), modules...),
		Sources: make([]string, 0, len(modules)),
		Path:    file,
	}

	bodies := make([]string, 0, len(modules))
	for _, module := range modules {
		path, ok := b.resolver.FindFile(module)
		if !ok {
			return nil, &BuildError{Module: module, Err: ErrModuleNotFound}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &BuildError{Module: module, Path: path, Err: err}
		}
		artifact.Sources = append(artifact.Sources, path)
		bodies = append(bodies, string(data))
	}

	compiled := compile(bodies)

	autoloadPath := ""
	if autoloadDir != "" {
		absAutoload, err := filepath.Abs(autoloadDir)
		if err != nil {
			return nil, &BuildError{Path: autoloadDir, Err: err}
		}
		autoloadPath, err = relativeDir(absAutoload, absOut)
		if err != nil {
			return nil, &BuildError{Path: autoloadDir, Err: err}
		}
	}

	var out bytes.Buffer
	err = b.wrapper.Execute(&out, wrapperData{
		AutoloadPath: autoloadPath,
		Body:         compiled[len(openTag):],
		Modules:      artifact.Modules,
	})
	if err != nil {
		return nil, &BuildError{Path: file, Err: fmt.Errorf("rendering wrapper: %w", err)}
	}

	if err := os.WriteFile(file, out.Bytes(), 0o644); err != nil {
		return nil, &BuildError{Path: file, Err: err}
	}

	logging.Info(subsystem, "Wrote %s (%d modules)", file, len(modules))
	return artifact, nil
}

// relativeDir expresses target relative to base, both absolute, with a
// trailing slash. Equal directories yield "./".
func relativeDir(target, base string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "./", nil
	}
	return filepath.ToSlash(rel) + "/", nil
}
