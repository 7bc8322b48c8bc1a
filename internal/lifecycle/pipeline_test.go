package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecycler/internal/bootstrap"
	"lifecycler/internal/options"
	"lifecycler/internal/process"
)

func TestHandle_ClearCacheDefaults(t *testing.T) {
	f := newFixture(t, "bin")

	out := f.pipeline.Handle(context.Background(), ClearCache, options.Defaults())

	require.NoError(t, out.Err)
	assert.Equal(t, Succeeded, out.State)
	assert.Equal(t, []State{Idle, Validating, Executing, Succeeded}, out.Trace)
	require.Len(t, f.runner.commands, 1)

	cmd := f.runner.commands[0]
	assert.Equal(t, "/usr/bin/php", cmd.Executable)
	assert.Equal(t, []string{"bin/console", "cache:clear", "--no-warmup"}, cmd.Args)
	assert.Equal(t, f.dir, cmd.Dir)
	require.NotNil(t, cmd.Timeout)
	assert.Equal(t, 300*time.Second, *cmd.Timeout)
	assert.Equal(t, "/usr/bin/php bin/console cache:clear --no-warmup", out.Command)
}

func TestHandle_ClearCacheWarmupAndAnsi(t *testing.T) {
	f := newFixture(t, "bin")
	f.io.decorated = true
	opts := options.Defaults()
	opts.CacheWarmup = true
	opts.ProcessTimeout = nil

	out := f.pipeline.Handle(context.Background(), ClearCache, opts)

	require.NoError(t, out.Err)
	cmd := f.runner.commands[0]
	assert.Equal(t, []string{"bin/console", "--ansi", "cache:clear"}, cmd.Args)
	assert.Nil(t, cmd.Timeout, "unlimited timeout is passed through")
}

func TestHandle_InstallAssetsModes(t *testing.T) {
	tests := []struct {
		mode options.AssetsInstallMode
		want []string
	}{
		{options.AssetsHard, []string{"bin/console", "assets:install", "web"}},
		{options.AssetsSymlink, []string{"bin/console", "assets:install", "--symlink", "web"}},
		{options.AssetsRelative, []string{"bin/console", "assets:install", "--symlink", "--relative", "web"}},
		{"junction", []string{"bin/console", "assets:install", "web"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			f := newFixture(t, "bin", "web")
			opts := options.Defaults()
			opts.AssetsInstallMode = tt.mode
			short := 10 * time.Second
			opts.ProcessTimeout = &short

			out := f.pipeline.Handle(context.Background(), InstallAssets, opts)

			require.NoError(t, out.Err)
			require.Len(t, f.runner.commands, 1)
			assert.Equal(t, tt.want, f.runner.commands[0].Args)
			require.NotNil(t, f.runner.commands[0].Timeout)
			assert.Equal(t, options.DefaultProcessTimeout, *f.runner.commands[0].Timeout)
		})
	}
}

func TestHandle_InstallAssetsEnvironmentSymlink(t *testing.T) {
	f := newFixture(t, "bin", "web")
	env := func(key string) (string, bool) {
		if key == options.AssetsInstallEnvVar {
			return "symlink", true
		}
		return "", false
	}
	opts := options.Resolve(options.Defaults(), nil, nil, env)

	out := f.pipeline.Handle(context.Background(), InstallAssets, opts)

	require.NoError(t, out.Err)
	args := f.runner.commands[0].Args
	assert.Contains(t, args, "--symlink")
	assert.NotContains(t, args, "--relative")
}

func TestHandle_SoftPreconditions(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		dirs  []string
		want  string
	}{
		{"bootstrap without var", BuildBootstrap, nil, "The var-dir (var) specified in composer.json was not found in %s, can not build bootstrap file."},
		{"cache without bin", ClearCache, []string{"web"}, "The bin-dir (bin) specified in composer.json was not found in %s, can not clear the cache."},
		{"assets without bin", InstallAssets, []string{"web"}, "The bin-dir (bin) specified in composer.json was not found in %s, can not install assets."},
		{"assets without web", InstallAssets, []string{"bin"}, "The web-dir (web) specified in composer.json was not found in %s, can not install assets."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.dirs...)

			out := f.pipeline.Handle(context.Background(), tt.event, options.Defaults())

			require.NoError(t, out.Err)
			assert.True(t, out.Skipped)
			assert.Equal(t, Succeeded, out.State)
			assert.Equal(t, []State{Idle, Validating, Succeeded}, out.Trace)
			assert.Equal(t, []string{fmt.Sprintf(tt.want, f.dir)}, f.io.lines)
			assert.Empty(t, f.runner.commands)
			assert.Empty(t, f.builder.calls)

			entries, err := os.ReadDir(f.dir)
			require.NoError(t, err)
			assert.Len(t, entries, len(tt.dirs), "a skipped event writes nothing")
		})
	}
}

func TestHandle_SubprocessFailure(t *testing.T) {
	f := newFixture(t, "bin")
	f.runner.result = process.Result{ExitCode: 3}
	f.runner.output = "cache is locked\n"

	out := f.pipeline.Handle(context.Background(), ClearCache, options.Defaults())

	assert.Equal(t, Failed, out.State)
	var stepErr *StepError
	require.True(t, errors.As(out.Err, &stepErr))
	assert.Equal(t, ClearCache, stepErr.Event)
	assert.Equal(t, "cache:clear --no-warmup", stepErr.Command)
	assert.Equal(t, `An error occurred when executing the "cache:clear --no-warmup" command.`, stepErr.Error())
	assert.Equal(t, "cache is locked\n", f.io.raw.String(), "child output is passed through")
}

func TestHandle_TimeoutIsFatal(t *testing.T) {
	f := newFixture(t, "bin", "web")
	f.runner.result = process.Result{ExitCode: -1, TimedOut: true, Err: errors.New("exceeded the timeout")}

	out := f.pipeline.Handle(context.Background(), InstallAssets, options.Defaults())

	var stepErr *StepError
	require.True(t, errors.As(out.Err, &stepErr))
	assert.Equal(t, `An error occurred when executing the "assets:install web" command.`, stepErr.Error())
}

func TestHandle_MissingPHP(t *testing.T) {
	f := newFixture(t, "bin")
	f.pipeline.FindPHP = findPHP("", fmt.Errorf("%w (tried [php])", process.ErrExecutableNotFound))

	out := f.pipeline.Handle(context.Background(), ClearCache, options.Defaults())

	assert.Equal(t, Failed, out.State)
	assert.True(t, errors.Is(out.Err, process.ErrExecutableNotFound))
	assert.Equal(t, process.ErrExecutableNotFound.Error(), out.Err.Error())
	assert.Empty(t, f.runner.commands, "nothing runs without an interpreter")
}

func TestHandle_BuildBootstrap(t *testing.T) {
	f := newFixture(t, "var")
	opts := options.Defaults()

	out := f.pipeline.Handle(context.Background(), BuildBootstrap, opts)

	require.NoError(t, out.Err)
	assert.Equal(t, Succeeded, out.State)
	require.Len(t, f.builder.calls, 1)
	assert.Equal(t, []string{filepath.Join(f.dir, "var"), filepath.Join(f.dir, "app")}, f.builder.calls[0])
	require.NotNil(t, out.Artifact)
	assert.Equal(t, []string{`Acme\First`, `Acme\Second`}, out.Artifact.Modules)
	assert.Equal(t, []string{"Building bootstrap file"}, f.io.progress)
	assert.Empty(t, f.runner.commands, "the bootstrap is built in process")
}

func TestHandle_BuildBootstrapFailure(t *testing.T) {
	f := newFixture(t, "var")
	f.builder.err = &bootstrap.BuildError{Module: `Acme\First`, Err: bootstrap.ErrModuleNotFound}

	out := f.pipeline.Handle(context.Background(), BuildBootstrap, options.Defaults())

	assert.Equal(t, Failed, out.State)
	assert.Equal(t, "An error occurred when generating the bootstrap file.", out.Err.Error())
	var buildErr *bootstrap.BuildError
	require.True(t, errors.As(out.Err, &buildErr))
	assert.Equal(t, `Acme\First`, buildErr.Module)
}

func TestHandle_UnknownEvent(t *testing.T) {
	f := newFixture(t)

	out := f.pipeline.Handle(context.Background(), Event("deploy"), options.Defaults())

	assert.Equal(t, Failed, out.State)
	assert.True(t, errors.Is(out.Err, ErrUnknownEvent))
}

func TestHandle_RealBuilder(t *testing.T) {
	f := newFixture(t, "var", "app", "src/Acme")
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "src/Acme/Kernel.php"), []byte("<?php\nnamespace Acme;\n\nclass Kernel {}\n"), 0o644))

	resolver := bootstrap.NewPrefixResolver(".php")
	resolver.Add(`Acme\`, bootstrap.StylePSR4, filepath.Join(f.dir, "src/Acme"))
	f.pipeline.Builder = bootstrap.NewBuilder(resolver)
	f.pipeline.Modules = []string{`Acme\Kernel`}

	first := f.pipeline.Handle(context.Background(), BuildBootstrap, options.Defaults())
	require.NoError(t, first.Err)
	a, err := os.ReadFile(first.Artifact.Path)
	require.NoError(t, err)

	second := f.pipeline.Handle(context.Background(), BuildBootstrap, options.Defaults())
	require.NoError(t, second.Err)
	b, err := os.ReadFile(second.Artifact.Path)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "require_once __DIR__.'/../app/autoload.php'")
}

func TestCheckPreconditions(t *testing.T) {
	dir := newProject(t, "bin")

	got := CheckPreconditions(dir, InstallAssets, options.Defaults())

	assert.Equal(t, []Precondition{
		{Key: "bin-dir", Path: "bin", Exists: true},
		{Key: "web-dir", Path: "web", Exists: false},
	}, got)
}
