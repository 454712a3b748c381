// Package assets reads client files from extracted storage directories.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	arc "github.com/hashicorp/golang-lru/arc/v2"
)

// ErrNotFound is returned when no storage root holds the requested file.
var ErrNotFound = errors.New("asset not found")

// DefaultCacheEntries is the number of resolved locations kept when none is
// configured.
const DefaultCacheEntries = 64

// Resolver maps file data IDs to client paths.
type Resolver interface {
	Path(id uint32) (string, bool)
}

// Manager loads files by file data ID from one or more storage roots.
// Each root is a directory tree laid out by lower-cased client path.
// Resolved on-disk locations are cached so Exists followed by Read searches
// the roots once; file contents are never retained.
type Manager struct {
	resolver Resolver
	roots    []string
	cache    *arc.ARCCache[uint32, string]
	mu       sync.RWMutex
}

// NewManager creates a manager. cacheEntries <= 0 uses DefaultCacheEntries.
func NewManager(resolver Resolver, cacheEntries int) (*Manager, error) {
	if cacheEntries <= 0 {
		cacheEntries = DefaultCacheEntries
	}
	cache, err := arc.NewARC[uint32, string](cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return &Manager{
		resolver: resolver,
		cache:    cache,
	}, nil
}

// AddRoot adds a storage directory.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()

	return nil
}

// Roots returns the configured storage directories in search order.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roots := make([]string, 0, len(m.roots))
	for i := len(m.roots) - 1; i >= 0; i-- {
		roots = append(roots, m.roots[i])
	}
	return roots
}

// Exists reports whether any root holds the file.
func (m *Manager) Exists(id uint32) bool {
	_, err := m.location(id)
	return err == nil
}

// Read returns the full contents of a file.
func (m *Manager) Read(id uint32) ([]byte, error) {
	path, err := m.location(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// Removed since it was located; search the roots again.
		m.cache.Remove(id)
		if path, err = m.location(id); err != nil {
			return nil, err
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %d: %w", id, err)
	}
	return data, nil
}

// location returns the cached on-disk path of a file, locating it on a miss.
func (m *Manager) location(id uint32) (string, error) {
	if path, ok := m.cache.Get(id); ok {
		return path, nil
	}
	path, err := m.locate(id)
	if err != nil {
		return "", err
	}
	m.cache.Add(id, path)
	return path, nil
}

// locate searches the roots for the on-disk path of a file.
func (m *Manager) locate(id uint32) (string, error) {
	rel, ok := m.resolver.Path(id)
	if !ok {
		return "", fmt.Errorf("%w: %d has no listfile entry", ErrNotFound, id)
	}
	rel = filepath.FromSlash(normalizePath(rel))

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		full := filepath.Join(m.roots[i], rel)
		info, err := os.Stat(full)
		if err == nil && !info.IsDir() {
			return full, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("checking %d: %w", id, err)
		}
	}

	return "", fmt.Errorf("%w: %d (%s)", ErrNotFound, id, rel)
}

// Close drops the roots and cached locations.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Purge()
}

// CacheLen returns the number of cached file locations.
func (m *Manager) CacheLen() int {
	return m.cache.Len()
}

func normalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}
