package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTemplate writes <dir>/<name>.txt, creating parent directories.
func WriteTemplate(t testing.TB, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name)+".txt")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
