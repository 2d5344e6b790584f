package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFileAt writes content to dir/name and sets its modification time.
func writeFileAt(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(name), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(p, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return p
}
