package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lifecycler/internal/bootstrap"
	"lifecycler/internal/process"
)

type recordingIO struct {
	lines     []string
	raw       strings.Builder
	decorated bool
	progress  []string
}

func (r *recordingIO) WriteLine(msg string) { r.lines = append(r.lines, msg) }
func (r *recordingIO) Write(p []byte)       { r.raw.Write(p) }
func (r *recordingIO) IsDecorated() bool    { return r.decorated }
func (r *recordingIO) Progress(msg string) func() {
	r.progress = append(r.progress, msg)
	return func() {}
}

type fakeRunner struct {
	commands []process.Command
	result   process.Result
	output   string
}

func (f *fakeRunner) Run(_ context.Context, cmd process.Command, onChunk func(process.Chunk)) process.Result {
	f.commands = append(f.commands, cmd)
	if f.output != "" && onChunk != nil {
		onChunk(process.Chunk{Stream: process.Stdout, Data: []byte(f.output)})
	}
	return f.result
}

type fakeBuilder struct {
	calls [][]string
	err   error
}

func (f *fakeBuilder) Build(outputDir, autoloadDir string, modules []string) (*bootstrap.Artifact, error) {
	f.calls = append(f.calls, []string{outputDir, autoloadDir})
	if f.err != nil {
		return nil, f.err
	}
	return &bootstrap.Artifact{Modules: modules, Path: filepath.Join(outputDir, bootstrap.ArtifactFileName)}, nil
}

func findPHP(path string, err error) func() (string, error) {
	return func() (string, error) { return path, err }
}

// newProject creates a project directory containing the given subdirectories.
func newProject(t *testing.T, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	return root
}

type pipelineFixture struct {
	pipeline *Pipeline
	io       *recordingIO
	runner   *fakeRunner
	builder  *fakeBuilder
	dir      string
}

func newFixture(t *testing.T, dirs ...string) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		io:      &recordingIO{},
		runner:  &fakeRunner{},
		builder: &fakeBuilder{},
		dir:     newProject(t, dirs...),
	}
	f.pipeline = &Pipeline{
		Runner:  f.runner,
		Builder: f.builder,
		FindPHP: findPHP("/usr/bin/php", nil),
		IO:      f.io,
		Dir:     f.dir,
		Modules: []string{`Acme\First`, `Acme\Second`},
	}
	return f
}
