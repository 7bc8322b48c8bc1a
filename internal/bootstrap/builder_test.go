package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Content(t *testing.T) {
	root, resolver := project(t)

	artifact, err := NewBuilder(resolver).Build(
		filepath.Join(root, "var"),
		filepath.Join(root, "app"),
		[]string{`Acme\A`, `Acme\Util\B`},
	)
	require.NoError(t, err)

	expected := "<?php\n\n" +
		"namespace { $loader = require_once __DIR__.'/../app/autoload.php'; }\n\n" +
		" \n" +
		"namespace Acme\n{\n\nclass A {}\n}\n\n" +
		"namespace Acme\\Util\n{\n\nclass B extends \\Acme\\A {}\n}\n" +
		"\n\n" +
		"namespace { return $loader; }\n            "

	data, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.Equal(t, expected, string(data))
	assert.Equal(t, filepath.Join(root, "var", ArtifactFileName), artifact.Path)
	assert.Equal(t, []string{`Acme\A`, `Acme\Util\B`}, artifact.Modules)
	assert.Len(t, artifact.Sources, 2)
}

func TestBuild_PreservesModuleOrder(t *testing.T) {
	root, resolver := project(t)
	b := NewBuilder(resolver)

	forward, err := b.Build(filepath.Join(root, "var"), "", []string{`Acme\A`, `Acme\Util\B`})
	require.NoError(t, err)
	forwardData, _ := os.ReadFile(forward.Path)

	reverse, err := b.Build(filepath.Join(root, "var"), "", []string{`Acme\Util\B`, `Acme\A`})
	require.NoError(t, err)
	reverseData, _ := os.ReadFile(reverse.Path)

	assert.NotEqual(t, string(forwardData), string(reverseData))
	assert.Less(t, indexOf(string(reverseData), "class B"), indexOf(string(reverseData), "class A"))
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestBuild_Idempotent(t *testing.T) {
	root, resolver := project(t)
	b := NewBuilder(resolver)
	modules := []string{`Acme\A`, `Acme\Util\B`}

	first, err := b.Build(filepath.Join(root, "var"), filepath.Join(root, "app"), modules)
	require.NoError(t, err)
	firstData, err := os.ReadFile(first.Path)
	require.NoError(t, err)

	second, err := b.Build(filepath.Join(root, "var"), filepath.Join(root, "app"), modules)
	require.NoError(t, err)
	secondData, err := os.ReadFile(second.Path)
	require.NoError(t, err)

	assert.Equal(t, firstData, secondData)
}

func TestBuild_IndependentOfWorkingDirectory(t *testing.T) {
	root, resolver := project(t)
	b := NewBuilder(resolver)
	modules := []string{`Acme\A`}

	absolute, err := b.Build(filepath.Join(root, "var"), filepath.Join(root, "app"), modules)
	require.NoError(t, err)
	absoluteData, _ := os.ReadFile(absolute.Path)

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.Chdir(filepath.Join(root, "src")))

	relative, err := b.Build("../var", "../app", modules)
	require.NoError(t, err)
	relativeData, _ := os.ReadFile(relative.Path)

	assert.Equal(t, string(absoluteData), string(relativeData))
}

func TestBuild_ReplacesPreviousArtifact(t *testing.T) {
	root, resolver := project(t)
	stale := writeFile(t, root, "var/"+ArtifactFileName, "stale content")

	_, err := NewBuilder(resolver).Build(filepath.Join(root, "var"), filepath.Join(root, "app"), []string{`Acme\A`})
	require.NoError(t, err)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale content")
}

func TestBuild_UnresolvedModuleLeavesNoArtifact(t *testing.T) {
	root, resolver := project(t)
	existing := writeFile(t, root, "var/"+ArtifactFileName, "old")

	_, err := NewBuilder(resolver).Build(filepath.Join(root, "var"), "", []string{`Acme\A`, `Acme\Missing`})
	require.Error(t, err)

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, `Acme\Missing`, buildErr.Module)
	assert.True(t, errors.Is(err, ErrModuleNotFound))

	_, statErr := os.Stat(existing)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestBuild_MissingOutputDirectory(t *testing.T) {
	root, resolver := project(t)

	_, err := NewBuilder(resolver).Build(filepath.Join(root, "nope"), "", []string{`Acme\A`})

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
}

func TestBuild_AutoloadNextToArtifact(t *testing.T) {
	root, resolver := project(t)

	artifact, err := NewBuilder(resolver).Build(filepath.Join(root, "app"), filepath.Join(root, "app"), []string{`Acme\A`})
	require.NoError(t, err)

	data, _ := os.ReadFile(artifact.Path)
	assert.Contains(t, string(data), "__DIR__.'/./autoload.php'")
}

func TestBuild_CustomWrapperWithSprig(t *testing.T) {
	root, resolver := project(t)

	b, err := NewBuilderWithWrapper(resolver, `{{ .Modules | join "," | upper }}|{{ .AutoloadPath }}`)
	require.NoError(t, err)

	artifact, err := b.Build(filepath.Join(root, "var"), filepath.Join(root, "app"), []string{`Acme\A`})
	require.NoError(t, err)

	data, _ := os.ReadFile(artifact.Path)
	assert.Equal(t, `ACME\A|../app/`, string(data))
}

func TestNewBuilderWithWrapper_InvalidTemplate(t *testing.T) {
	_, err := NewBuilderWithWrapper(NewChain(), "{{ .Body ")
	assert.Error(t, err)
}

func TestRelativeDir(t *testing.T) {
	tests := []struct {
		target, base, expected string
	}{
		{"/srv/project/app", "/srv/project/var", "../app/"},
		{"/srv/project/app", "/srv/project/app", "./"},
		{"/srv/project/var/cache", "/srv/project/var", "cache/"},
		{"/srv/other", "/srv/project/var/bootstrap", "../../../other/"},
	}
	for _, tt := range tests {
		got, err := relativeDir(filepath.FromSlash(tt.target), filepath.FromSlash(tt.base))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}
