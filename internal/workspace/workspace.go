// Package workspace holds the project's file tree: a plain hierarchy of
// folders and files with path-based CRUD. The tree is the source of truth
// for what gets sent to the compiler; flattening it produces the
// filename→content map of a compile request.
package workspace

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("workspace: not found")
	ErrExists   = errors.New("workspace: already exists")
	ErrIsFolder = errors.New("workspace: path is a folder")
)

// File is a leaf node with content.
type File struct {
	Name    string
	Content string
}

// Folder is an interior node. Children are kept sorted by name.
type Folder struct {
	Name    string
	Folders []*Folder
	Files   []*File
}

// Tree is the workspace root.
type Tree struct {
	Root *Folder
}

func NewTree() *Tree {
	return &Tree{Root: &Folder{}}
}

func splitPath(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	return parts
}

func (f *Folder) folder(name string) *Folder {
	for _, sub := range f.Folders {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func (f *Folder) file(name string) *File {
	for _, file := range f.Files {
		if file.Name == name {
			return file
		}
	}
	return nil
}

// descend walks to the folder containing the last path element. With create
// set, missing intermediate folders are made on the way.
func (t *Tree) descend(parts []string, create bool) (*Folder, error) {
	cur := t.Root
	for _, name := range parts {
		next := cur.folder(name)
		if next == nil {
			if !create {
				return nil, ErrNotFound
			}
			if cur.file(name) != nil {
				return nil, ErrExists
			}
			next = &Folder{Name: name}
			cur.Folders = append(cur.Folders, next)
			sort.Slice(cur.Folders, func(i, k int) bool {
				return cur.Folders[i].Name < cur.Folders[k].Name
			})
		}
		cur = next
	}
	return cur, nil
}

// CreateFile adds a new file, creating intermediate folders.
func (t *Tree) CreateFile(path, content string) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrNotFound
	}
	name := parts[len(parts)-1]
	parent, err := t.descend(parts[:len(parts)-1], true)
	if err != nil {
		return err
	}
	if parent.file(name) != nil || parent.folder(name) != nil {
		return ErrExists
	}
	parent.Files = append(parent.Files, &File{Name: name, Content: content})
	sort.Slice(parent.Files, func(i, k int) bool {
		return parent.Files[i].Name < parent.Files[k].Name
	})
	return nil
}

func (t *Tree) lookup(path string) (*Folder, *File, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, nil, ErrNotFound
	}
	parent, err := t.descend(parts[:len(parts)-1], false)
	if err != nil {
		return nil, nil, err
	}
	name := parts[len(parts)-1]
	if file := parent.file(name); file != nil {
		return parent, file, nil
	}
	if parent.folder(name) != nil {
		return parent, nil, ErrIsFolder
	}
	return nil, nil, ErrNotFound
}

// ReadFile returns the content of the file at path.
func (t *Tree) ReadFile(path string) (string, error) {
	_, file, err := t.lookup(path)
	if err != nil {
		return "", err
	}
	return file.Content, nil
}

// WriteFile replaces the content of an existing file.
func (t *Tree) WriteFile(path, content string) error {
	_, file, err := t.lookup(path)
	if err != nil {
		return err
	}
	file.Content = content
	return nil
}

// Rename changes the name of the file at path within its folder.
func (t *Tree) Rename(path, newName string) error {
	parent, file, err := t.lookup(path)
	if err != nil {
		return err
	}
	if parent.file(newName) != nil || parent.folder(newName) != nil {
		return ErrExists
	}
	file.Name = newName
	sort.Slice(parent.Files, func(i, k int) bool {
		return parent.Files[i].Name < parent.Files[k].Name
	})
	return nil
}

// Delete removes the file or folder at path. Folders are removed with
// everything under them.
func (t *Tree) Delete(path string) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrNotFound
	}
	parent, err := t.descend(parts[:len(parts)-1], false)
	if err != nil {
		return err
	}
	name := parts[len(parts)-1]
	for i, file := range parent.Files {
		if file.Name == name {
			parent.Files = append(parent.Files[:i], parent.Files[i+1:]...)
			return nil
		}
	}
	for i, sub := range parent.Folders {
		if sub.Name == name {
			parent.Folders = append(parent.Folders[:i], parent.Folders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Walk visits every file depth-first in sorted order.
func (t *Tree) Walk(fn func(path string, file *File)) {
	var walk func(prefix string, folder *Folder)
	walk = func(prefix string, folder *Folder) {
		for _, file := range folder.Files {
			fn(prefix+file.Name, file)
		}
		for _, sub := range folder.Folders {
			walk(prefix+sub.Name+"/", sub)
		}
	}
	walk("", t.Root)
}

// Flatten produces the filename→content mapping for a compile request.
func (t *Tree) Flatten() map[string]string {
	files := map[string]string{}
	t.Walk(func(path string, file *File) {
		files[path] = file.Content
	})
	return files
}
