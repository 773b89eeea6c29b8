package transport

import (
	"os"
	"path/filepath"
	"testing"
)

// shortSocketPath returns a socket path under the test temp dir. Unix
// socket paths are limited to roughly 100 bytes, so the filename is kept
// minimal.
func shortSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "s.sock")
}

func mkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func touch(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}
