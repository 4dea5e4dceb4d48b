package pipelines

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source is one pipeline definition file read from disk.
type Source struct {
	Path string
	Data []byte
}

func isYAML(p string) bool {
	l := strings.ToLower(p)
	return strings.HasSuffix(l, ".yml") || strings.HasSuffix(l, ".yaml")
}

// LoadDirRecursive collects every .yml/.yaml file under root.
func LoadDirRecursive(root string) ([]Source, error) {
	var out []Source
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(p) {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out = append(out, Source{Path: p, Data: b})
		return nil
	})
	return out, err
}
