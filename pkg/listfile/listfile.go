// Package listfile maps client file data IDs to their paths using the
// community listfile format: one "id;path" entry per line.
package listfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrInvalidLine is returned for lines that are not "id;path".
var ErrInvalidLine = errors.New("invalid listfile line")

// Entry is a single listfile record.
type Entry struct {
	ID   uint32
	Path string
}

// Listfile is an in-memory ID to path catalog.
type Listfile struct {
	byID   map[uint32]string
	byPath map[string]uint32
}

// New creates an empty listfile.
func New() *Listfile {
	return &Listfile{
		byID:   make(map[uint32]string),
		byPath: make(map[string]uint32),
	}
}

// Parse reads listfile entries from r.
func Parse(r io.Reader) (*Listfile, error) {
	lf := New()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		idStr, path, ok := strings.Cut(line, ";")
		if !ok || path == "" {
			return nil, fmt.Errorf("%w %d: %q", ErrInvalidLine, lineNo, line)
		}
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w %d: bad id %q", ErrInvalidLine, lineNo, idStr)
		}

		lf.Add(uint32(id), path)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listfile: %w", err)
	}

	return lf, nil
}

// Load reads a listfile from disk. Files ending in ".zst" are decompressed.
func Load(path string) (*Listfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening listfile: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if isCompressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	return Parse(r)
}

// Add inserts or replaces an entry.
func (l *Listfile) Add(id uint32, path string) {
	if old, ok := l.byID[id]; ok {
		delete(l.byPath, normalizePath(old))
	}
	l.byID[id] = path
	l.byPath[normalizePath(path)] = id
}

// Len returns the number of entries.
func (l *Listfile) Len() int {
	return len(l.byID)
}

// Path returns the path of a file data ID.
func (l *Listfile) Path(id uint32) (string, bool) {
	path, ok := l.byID[id]
	return path, ok
}

// ID looks up a file data ID by path. Matching is case-insensitive and
// treats backslashes as forward slashes.
func (l *Listfile) ID(path string) (uint32, bool) {
	id, ok := l.byPath[normalizePath(path)]
	return id, ok
}

// Exists reports whether the ID is known.
func (l *Listfile) Exists(id uint32) bool {
	_, ok := l.byID[id]
	return ok
}

// Match returns all entries whose path satisfies match, sorted by ID.
func (l *Listfile) Match(match func(path string) bool) []Entry {
	var result []Entry
	for id, path := range l.byID {
		if match(path) {
			result = append(result, Entry{ID: id, Path: path})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// WithSuffix returns entries whose path ends with suffix, ignoring case.
func (l *Listfile) WithSuffix(suffix string) []Entry {
	suffix = strings.ToLower(suffix)
	return l.Match(func(path string) bool {
		return strings.HasSuffix(strings.ToLower(path), suffix)
	})
}

// WithPrefixSuffix returns entries whose path starts with prefix and ends
// with suffix, ignoring case.
func (l *Listfile) WithPrefixSuffix(prefix, suffix string) []Entry {
	prefix = strings.ToLower(prefix)
	suffix = strings.ToLower(suffix)
	return l.Match(func(path string) bool {
		p := strings.ToLower(path)
		return strings.HasPrefix(p, prefix) && strings.HasSuffix(p, suffix)
	})
}

func normalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}

func isCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}
