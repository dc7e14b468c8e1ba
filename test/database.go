package test

import (
	"path/filepath"
	"testing"
)

// DatabaseFile returns the path of a sqlite database file in a fresh
// temporary directory. Backups can be written next to it, the directory
// is removed when the test ends.
func DatabaseFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "purchases.db")
}
