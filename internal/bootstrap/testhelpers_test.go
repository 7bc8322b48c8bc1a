package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates path (and its parents) under root with content.
func writeFile(t *testing.T, root, path, content string) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

// project lays out a small project: app/autoload.php, var/, and two modules
// under src/.
func project(t *testing.T) (root string, resolver *PrefixResolver) {
	t.Helper()
	root = t.TempDir()
	writeFile(t, root, "app/autoload.php", "<?php return require __DIR__.'/../vendor/autoload.php';\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "var"), 0o755))
	writeFile(t, root, "src/Acme/A.php", "<?php\n\nnamespace Acme;\n\nclass A {}\n")
	writeFile(t, root, "src/Acme/Util/B.php", "<?php\nnamespace Acme\\Util;\n\nclass B extends \\Acme\\A {}\n")

	resolver = NewPrefixResolver("")
	resolver.Add(`Acme\`, StylePSR4, filepath.Join(root, "src", "Acme"))
	return root, resolver
}
