// Package storage abstracts the flat-file backing store behind a narrow
// adapter so the data manager never touches the host filesystem directly.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Adapter is the minimal file interface the data manager needs. Paths are
// relative to the adapter's root. Reading a missing file and deleting a
// missing file are errors the callers are expected to check with IsNotExist.
type Adapter interface {
	Exists(path string) (bool, error)
	Read(path string) (string, error)
	Write(path string, data string) error
	Delete(path string) error
	List() ([]string, error)
}

// IsNotExist reports whether err indicates a missing file.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

// Dir is an Adapter over a single local directory.
type Dir struct {
	root string
}

// NewDir creates (if needed) and opens a directory-backed adapter.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Dir{root: root}, nil
}

// Root returns the absolute directory this adapter operates on.
func (d *Dir) Root() string { return d.root }

func (d *Dir) Exists(path string) (bool, error) {
	_, err := os.Stat(filepath.Join(d.root, path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (d *Dir) Read(path string) (string, error) {
	b, err := os.ReadFile(filepath.Join(d.root, path))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Dir) Write(path string, data string) error {
	return os.WriteFile(filepath.Join(d.root, path), []byte(data), 0o644)
}

func (d *Dir) Delete(path string) error {
	return os.Remove(filepath.Join(d.root, path))
}

// List returns the names of regular files directly under the root, sorted.
func (d *Dir) List() ([]string, error) {
	dirents, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("list data directory: %w", err)
	}
	var names []string
	for _, de := range dirents {
		if de.Type().IsRegular() {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
