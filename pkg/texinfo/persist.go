package texinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// Output file names.
const (
	MetaFileName   = "TextureInfoMeta.json"
	ByIDFileName   = "TextureInfoByFileId.json"
	ByPathFileName = "TextureInfoByFilePath.json"
)

// Meta is the combined on-disk form of a store.
type Meta struct {
	TextureInfoByFileID   map[uint32]TextureInfo `json:"TextureInfoByFileId"`
	TextureInfoByFilePath map[string]TextureInfo `json:"TextureInfoByFilePath"`
}

// Meta returns a snapshot of both lookup tables.
func (s *Store) Meta() Meta {
	m := Meta{
		TextureInfoByFileID:   make(map[uint32]TextureInfo, len(s.byID)),
		TextureInfoByFilePath: make(map[string]TextureInfo, len(s.byPath)),
	}
	for id, info := range s.byID {
		m.TextureInfoByFileID[id] = info
	}
	for p, info := range s.byPath {
		m.TextureInfoByFilePath[p] = info
	}
	return m
}

// FromMeta builds a store from a previously saved snapshot.
func FromMeta(m Meta) *Store {
	s := NewStore()
	for id, info := range m.TextureInfoByFileID {
		s.byID[id] = info
	}
	for p, info := range m.TextureInfoByFilePath {
		s.byPath[p] = info
	}
	return s
}

// Load reads the combined meta file from dir. A missing file yields an
// empty store.
func Load(dir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(CleanDir(dir), MetaFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, err
	}

	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MetaFileName, err)
	}
	return FromMeta(m), nil
}

// Save writes the combined meta file and the two single-table files to dir.
// All files are attempted; failures are combined.
func (s *Store) Save(dir string) error {
	dir = CleanDir(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	m := s.Meta()
	var err error
	err = multierr.Append(err, writeJSON(filepath.Join(dir, MetaFileName), m))
	err = multierr.Append(err, writeJSON(filepath.Join(dir, ByIDFileName), m.TextureInfoByFileID))
	err = multierr.Append(err, writeJSON(filepath.Join(dir, ByPathFileName), m.TextureInfoByFilePath))
	return err
}

// CleanDir trims trailing path separators; an empty dir means the current
// directory.
func CleanDir(dir string) string {
	trimmed := strings.TrimRight(dir, `/\`)
	switch {
	case trimmed != "":
		return trimmed
	case dir != "":
		return dir[:1]
	default:
		return "."
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
