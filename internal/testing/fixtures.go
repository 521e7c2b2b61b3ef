// Package testing holds fixtures shared by package tests.
package testing

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/teranos/ciprobe/registry"
)

// CreateTestRegistry builds a registry from entries or fails the test.
func CreateTestRegistry(t testing.TB, entries map[string][]string, opts ...registry.Option) *registry.Registry {
	t.Helper()

	reg, err := registry.New(entries, opts...)
	if err != nil {
		t.Fatalf("Failed to create test registry: %v", err)
	}
	return reg
}

// CreateTestWorkspace returns an in-memory filesystem holding files
// (absolute path → content). A path ending in "/" creates an empty directory.
func CreateTestWorkspace(t testing.TB, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		if strings.HasSuffix(path, "/") {
			if err := fs.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("Failed to create %s: %v", path, err)
			}
			continue
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	return fs
}
