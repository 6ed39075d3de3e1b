package storage

import (
	"io/fs"
	"sort"
)

// Memory is an in-memory Adapter used by tests, playing the role a
// throwaway temp directory would otherwise play.
type Memory struct {
	files map[string]string
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string]string)}
}

func (m *Memory) Exists(path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func (m *Memory) Read(path string) (string, error) {
	data, ok := m.files[path]
	if !ok {
		return "", fs.ErrNotExist
	}
	return data, nil
}

func (m *Memory) Write(path string, data string) error {
	m.files[path] = data
	return nil
}

func (m *Memory) Delete(path string) error {
	if _, ok := m.files[path]; !ok {
		return fs.ErrNotExist
	}
	delete(m.files, path)
	return nil
}

func (m *Memory) List() ([]string, error) {
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
