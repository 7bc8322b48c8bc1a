package app

import (
	"fmt"
	"os"
	"path/filepath"

	"lifecycler/internal/bootstrap"
	"lifecycler/internal/cli"
	"lifecycler/internal/lifecycle"
	"lifecycler/internal/options"
	"lifecycler/internal/process"
	"lifecycler/pkg/logging"
)

// Services holds the components shared by all commands of one invocation.
type Services struct {
	// Resolver is the module resolver chain, first registered wins.
	Resolver *bootstrap.Chain

	// Capabilities were probed once from Resolver, before any build.
	Capabilities bootstrap.Capabilities

	// Modules is the ordered list aggregated into the artifact.
	Modules []string

	Builder *bootstrap.Builder
	Runner  *process.Runner

	// FindPHP locates the interpreter, honouring the configured binary.
	FindPHP func() (string, error)

	Pipeline   *lifecycle.Pipeline
	Dispatcher *lifecycle.Dispatcher
}

// InitializeServices builds the services from a bootstrapped configuration.
func InitializeServices(cfg *Config, console *cli.Console) (*Services, error) {
	toolCfg := cfg.LifecyclerConfig
	manifest := cfg.Manifest

	chain := bootstrap.NewChain()

	if len(toolCfg.ClassMap) > 0 {
		classMap := make(bootstrap.ClassMapResolver, len(toolCfg.ClassMap))
		for module, file := range toolCfg.ClassMap {
			if !filepath.IsAbs(file) {
				file = filepath.Join(cfg.ProjectDir, file)
			}
			classMap[module] = file
		}
		chain.Register(classMap)
	}

	prefixes := bootstrap.NewPrefixResolver(".php")
	manifest.Autoload.AddTo(prefixes, cfg.ProjectDir)

	vendorDir := manifest.VendorDir()
	if !filepath.IsAbs(vendorDir) {
		vendorDir = filepath.Join(cfg.ProjectDir, vendorDir)
	}
	installed, err := bootstrap.LoadInstalled(prefixes, vendorDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read installed packages: %w", err)
	}
	chain.Register(prefixes)
	logging.Debug("Bootstrap", "Resolver chain has %d resolvers, %d installed packages", chain.Len(), installed)

	builder, err := newBuilder(chain, toolCfg.BootstrapWrapper)
	if err != nil {
		return nil, err
	}

	caps := bootstrap.ProbeCapabilities(chain)
	modules := bootstrap.DefaultModules(caps)
	logging.Debug("Bootstrap", "Framework kernel available: %v", caps.FrameworkKernel)

	env := cfg.Env
	preferred := toolCfg.PHPBinary
	findPHP := func() (string, error) {
		return process.FindPHP(preferred, process.LookupEnv(env))
	}

	runner := process.NewRunner()
	pipeline := &lifecycle.Pipeline{
		Runner:  runner,
		Builder: builder,
		FindPHP: findPHP,
		IO:      console,
		Dir:     cfg.ProjectDir,
		Modules: modules,
	}

	scripts := make(map[string][]string, len(manifest.Scripts))
	for hook, entries := range manifest.Scripts {
		scripts[hook] = entries
	}
	dispatcher := &lifecycle.Dispatcher{
		Pipeline: pipeline,
		Scripts:  scripts,
		Options: func() options.Set {
			return options.Resolve(options.Defaults(), manifest.Extra, manifest.Config.ProcessTimeout, env)
		},
	}

	return &Services{
		Resolver:     chain,
		Capabilities: caps,
		Modules:      modules,
		Builder:      builder,
		Runner:       runner,
		FindPHP:      findPHP,
		Pipeline:     pipeline,
		Dispatcher:   dispatcher,
	}, nil
}

func newBuilder(r bootstrap.Resolver, wrapperPath string) (*bootstrap.Builder, error) {
	if wrapperPath == "" {
		return bootstrap.NewBuilder(r), nil
	}
	data, err := os.ReadFile(wrapperPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bootstrap wrapper %s: %w", wrapperPath, err)
	}
	return bootstrap.NewBuilderWithWrapper(r, string(data))
}
