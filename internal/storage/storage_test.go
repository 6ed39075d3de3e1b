package storage

import (
	"path/filepath"
	"testing"
)

func adapters(t *testing.T) map[string]Adapter {
	t.Helper()
	dir, err := NewDir(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("new dir adapter: %v", err)
	}
	return map[string]Adapter{
		"dir":    dir,
		"memory": NewMemory(),
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			if ok, _ := a.Exists("x.txt"); ok {
				t.Fatal("file should not exist yet")
			}

			if err := a.Write("x.txt", "hello"); err != nil {
				t.Fatal(err)
			}
			if ok, _ := a.Exists("x.txt"); !ok {
				t.Fatal("file should exist after write")
			}

			data, err := a.Read("x.txt")
			if err != nil {
				t.Fatal(err)
			}
			if data != "hello" {
				t.Fatalf("read %q, want hello", data)
			}

			if err := a.Write("x.txt", "replaced"); err != nil {
				t.Fatal(err)
			}
			data, _ = a.Read("x.txt")
			if data != "replaced" {
				t.Fatalf("read %q, want replaced", data)
			}

			if err := a.Delete("x.txt"); err != nil {
				t.Fatal(err)
			}
			if ok, _ := a.Exists("x.txt"); ok {
				t.Fatal("file should be gone after delete")
			}
		})
	}
}

func TestAdapterReadMissing(t *testing.T) {
	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			_, err := a.Read("missing.txt")
			if err == nil {
				t.Fatal("expected error for missing file")
			}
			if !IsNotExist(err) {
				t.Fatalf("IsNotExist should recognize the error: %v", err)
			}
		})
	}
}

func TestAdapterDeleteMissing(t *testing.T) {
	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			err := a.Delete("missing.txt")
			if err == nil {
				t.Fatal("expected error for missing file")
			}
			if !IsNotExist(err) {
				t.Fatalf("IsNotExist should recognize the error: %v", err)
			}
		})
	}
}

func TestAdapterListSorted(t *testing.T) {
	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			a.Write("2025-02.csv", "b")
			a.Write("2025-01.csv", "a")
			a.Write("categories.json", "{}")

			names, err := a.List()
			if err != nil {
				t.Fatal(err)
			}
			if len(names) != 3 {
				t.Fatalf("expected 3 files, got %d", len(names))
			}
			for i := 1; i < len(names); i++ {
				if names[i-1] >= names[i] {
					t.Fatal("names should be sorted")
				}
			}
		})
	}
}

func TestNewDirCreatesDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	d, err := NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if d.Root() != root {
		t.Fatalf("root = %q, want %q", d.Root(), root)
	}
	if err := d.Write("probe.txt", "ok"); err != nil {
		t.Fatalf("write into created directory: %v", err)
	}
}
