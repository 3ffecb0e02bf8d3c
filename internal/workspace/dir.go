package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FromDir loads files with the given extension from dir into a fresh tree.
// Paths inside the tree are relative to dir, slash-separated.
func FromDir(dir, ext string) (*Tree, error) {
	tree := NewTree()
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return tree.CreateFile(filepath.ToSlash(rel), string(data))
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}
