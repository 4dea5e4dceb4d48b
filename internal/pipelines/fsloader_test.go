package pipelines

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDirRecursive(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(p, data string) {
		t.Helper()
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(root, "a.yml"), "version: 1")
	write(filepath.Join(sub, "b.yaml"), "version: 1")
	write(filepath.Join(sub, "ignore.txt"), "nope")
	write(filepath.Join(root, "README.md"), "nope")

	sources, err := LoadDirRecursive(root)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("want 2 sources, got %d", len(sources))
	}
	for _, s := range sources {
		if string(s.Data) != "version: 1" {
			t.Fatalf("unexpected data in %s: %q", s.Path, s.Data)
		}
	}
}

func TestLoadDirRecursiveMissingRoot(t *testing.T) {
	if _, err := LoadDirRecursive(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing root")
	}
}
