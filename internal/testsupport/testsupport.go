// Package testsupport provides helpers shared by package tests: seeded
// configs and directory trees rooted in per-test temp directories.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"tidy/internal/config"
)

// NewConfig produces a config whose history database lives in a per-test
// temp directory.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	return &cfg
}

// WriteFile creates path (and its parents) with the given contents.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SeedTree creates every file in files under root. Keys are slash-separated
// relative paths; values are file contents.
func SeedTree(t testing.TB, root string, files map[string]string) {
	t.Helper()

	for rel, contents := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), contents)
	}
}

// ListTree returns the slash-separated relative paths of every regular file
// under root, for asserting on directory layouts.
func ListTree(t testing.TB, root string) []string {
	t.Helper()

	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return out
}
