package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempRoot returns a symlink-resolved temp directory to use as a source
// root. Resolution matters on platforms where the temp dir itself is a
// symlink (macOS /tmp): paths computed relative to the unresolved root
// would not match realpath-resolved classifier output.
func TempRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}
	return root
}

// WriteTree creates the given files under root, with parent directories,
// each holding a small placeholder body. Paths use forward slashes.
func WriteTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("creating dir for %s: %v", p, err)
		}
		if err := os.WriteFile(full, []byte("// placeholder\n"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", p, err)
		}
	}
}
