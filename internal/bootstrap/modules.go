package bootstrap

// FrameworkKernelModule is aggregated when the full framework is installed.
const FrameworkKernelModule = `Symfony\Bundle\FrameworkBundle\HttpKernel`

// ContainerAwareKernelModule is aggregated instead when it is not.
const ContainerAwareKernelModule = `Symfony\Component\HttpKernel\DependencyInjection\ContainerAwareHttpKernel`

// baseModules is hand-maintained and ordered. Two classes are left out on
// purpose:
//   - Symfony\Component\DependencyInjection\ContainerAware, because the
//     annotation reader would then parse the whole aggregated file
//   - Symfony\Bundle\FrameworkBundle\FrameworkBundle, because console
//     commands are discovered relative to that class's file path
var baseModules = []string{
	`Symfony\Component\HttpFoundation\ParameterBag`,
	`Symfony\Component\HttpFoundation\HeaderBag`,
	`Symfony\Component\HttpFoundation\FileBag`,
	`Symfony\Component\HttpFoundation\ServerBag`,
	`Symfony\Component\HttpFoundation\Request`,
	`Symfony\Component\HttpFoundation\Response`,
	`Symfony\Component\HttpFoundation\ResponseHeaderBag`,

	`Symfony\Component\DependencyInjection\ContainerAwareInterface`,
	`Symfony\Component\DependencyInjection\Container`,
	`Symfony\Component\HttpKernel\Kernel`,
	`Symfony\Component\ClassLoader\ClassCollectionLoader`,
	`Symfony\Component\ClassLoader\ApcClassLoader`,
	`Symfony\Component\HttpKernel\Bundle\Bundle`,
	`Symfony\Component\Config\ConfigCache`,
}

// Capabilities are facts about the installed code base that change which
// modules are aggregated. They are resolved once, before any build.
type Capabilities struct {
	// FrameworkKernel is true when the framework bundle's kernel is resolvable.
	FrameworkKernel bool
}

// ProbeCapabilities inspects the resolver once. Resolution only locates
// files, so probing has no effect on what ends up in the artifact.
func ProbeCapabilities(r Resolver) Capabilities {
	_, ok := r.FindFile(FrameworkKernelModule)
	return Capabilities{FrameworkKernel: ok}
}

// DefaultModules returns the ordered module list for the given capabilities.
// Exactly one kernel entry point is appended at the end.
func DefaultModules(caps Capabilities) []string {
	modules := make([]string, 0, len(baseModules)+1)
	modules = append(modules, baseModules...)
	if caps.FrameworkKernel {
		modules = append(modules, FrameworkKernelModule)
	} else {
		modules = append(modules, ContainerAwareKernelModule)
	}
	return modules
}
