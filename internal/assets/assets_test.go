package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type mapResolver map[uint32]string

func (m mapResolver) Path(id uint32) (string, bool) {
	p, ok := m[id]
	return p, ok
}

// writeFile creates a file under root, creating directories as needed.
func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestManager_Read(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "world/maps/test/test_1_1_tex0.adt", []byte("tile data"))

	m, err := NewManager(mapResolver{1: "World\\Maps\\Test\\Test_1_1_tex0.adt"}, 4)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer m.Close()

	if err := m.AddRoot(root); err != nil {
		t.Fatalf("AddRoot failed: %v", err)
	}

	if !m.Exists(1) {
		t.Error("expected file 1 to exist")
	}

	data, err := m.Read(1)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "tile data" {
		t.Errorf("unexpected content %q", data)
	}
	if m.CacheLen() != 1 {
		t.Errorf("expected 1 cached location, got %d", m.CacheLen())
	}
}

func TestManager_ExistsCachesLocation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "world/maps/a/a_0_0_tex0.adt", []byte("tile"))

	m, err := NewManager(mapResolver{1: "world/maps/a/a_0_0_tex0.adt"}, 4)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.AddRoot(root); err != nil {
		t.Fatalf("AddRoot failed: %v", err)
	}

	if !m.Exists(1) {
		t.Fatal("expected file 1 to exist")
	}
	want := filepath.Join(root, "world", "maps", "a", "a_0_0_tex0.adt")
	if got, ok := m.cache.Peek(1); !ok || got != want {
		t.Fatalf("expected cached location %s, got %q (%v)", want, got, ok)
	}

	// A root added after the lookup is not searched again.
	patch := t.TempDir()
	writeFile(t, patch, "world/maps/a/a_0_0_tex0.adt", []byte("patched tile"))
	m.AddRoot(patch)

	data, err := m.Read(1)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "tile" {
		t.Errorf("expected Read to use the located file, got %q", data)
	}
	if got, _ := m.cache.Peek(1); got != want {
		t.Errorf("Read should leave the cached location alone, got %q", got)
	}
}

func TestManager_StaleLocation(t *testing.T) {
	base := t.TempDir()
	patch := t.TempDir()
	writeFile(t, base, "a.adt", []byte("base"))
	writeFile(t, patch, "a.adt", []byte("patch"))

	m, err := NewManager(mapResolver{1: "a.adt", 2: "b.adt"}, 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	m.AddRoot(base)
	m.AddRoot(patch)

	if !m.Exists(1) {
		t.Fatal("expected file 1 to exist")
	}
	if err := os.Remove(filepath.Join(patch, "a.adt")); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}

	data, err := m.Read(1)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "base" {
		t.Errorf("expected fallback to base root, got %q", data)
	}

	writeFile(t, base, "b.adt", []byte("gone soon"))
	if !m.Exists(2) {
		t.Fatal("expected file 2 to exist")
	}
	os.Remove(filepath.Join(base, "b.adt"))
	if _, err := m.Read(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after removal, got %v", err)
	}
	if m.cache.Contains(2) {
		t.Error("stale location should be dropped")
	}
}

func TestManager_NotFound(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(mapResolver{1: "missing.adt"}, 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.AddRoot(root); err != nil {
		t.Fatalf("AddRoot failed: %v", err)
	}

	if m.Exists(1) {
		t.Error("file without data should not exist")
	}
	if _, err := m.Read(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing file, got %v", err)
	}
	if _, err := m.Read(2); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown ID, got %v", err)
	}
}

func TestManager_RootPriority(t *testing.T) {
	base := t.TempDir()
	patch := t.TempDir()
	writeFile(t, base, "a.adt", []byte("base"))
	writeFile(t, patch, "a.adt", []byte("patch"))

	m, err := NewManager(mapResolver{1: "a.adt"}, 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	m.AddRoot(base)
	m.AddRoot(patch)

	data, err := m.Read(1)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "patch" {
		t.Errorf("expected last added root to win, got %q", data)
	}

	roots := m.Roots()
	if len(roots) != 2 || roots[0] != patch {
		t.Errorf("expected search order [patch base], got %v", roots)
	}
}

func TestManager_AddRootInvalid(t *testing.T) {
	m, err := NewManager(mapResolver{}, 0)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := m.AddRoot(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, nil, 0644)
	if err := m.AddRoot(file); err == nil {
		t.Error("expected error for file root")
	}
}
