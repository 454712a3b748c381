package texinfo

import "fmt"

// ConflictField names the setting that differs in a Conflict.
type ConflictField string

// Conflicting fields.
const (
	FieldScale        ConflictField = "scale"
	FieldHeightScale  ConflictField = "height_scale"
	FieldHeightOffset ConflictField = "height_offset"
)

// Conflict describes a key that was overwritten with a different value.
// One Conflict is reported per differing field.
type Conflict struct {
	Key   string
	Field ConflictField
	Old   TextureInfo
	New   TextureInfo
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s mismatch (%+v -> %+v)", c.Key, c.Field, c.Old, c.New)
}

// Store accumulates texture settings across tiles.
//
// Every Add writes the same value under the height texture ID and the
// texture path. A Store is not safe for concurrent use.
type Store struct {
	byID   map[uint32]TextureInfo
	byPath map[string]TextureInfo

	// OnConflict is called before a key is overwritten with a different value.
	OnConflict func(Conflict)

	// Checkpoint is notified after every Add.
	Checkpoint CheckpointPolicy

	conflicts int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[uint32]TextureInfo),
		byPath: make(map[string]TextureInfo),
	}
}

// Add merges an entry under both of its keys and then runs the checkpoint
// policy.
func (s *Store) Add(e Entry) {
	s.MergePath(e.Path, e.Info)
	s.MergeID(e.HeightID, e.Info)

	if s.Checkpoint != nil {
		s.Checkpoint.Inserted(s)
	}
}

// MergePath inserts or overwrites the settings for a texture path.
func (s *Store) MergePath(path string, info TextureInfo) {
	if old, ok := s.byPath[path]; ok {
		s.report(path, old, info)
	}
	s.byPath[path] = info
}

// MergeID inserts or overwrites the settings for a height texture ID.
func (s *Store) MergeID(id uint32, info TextureInfo) {
	if old, ok := s.byID[id]; ok {
		s.report(fmt.Sprint(id), old, info)
	}
	s.byID[id] = info
}

func (s *Store) report(key string, old, info TextureInfo) {
	var fields []ConflictField
	if old.Scale != info.Scale {
		fields = append(fields, FieldScale)
	}
	if old.HeightScale != info.HeightScale {
		fields = append(fields, FieldHeightScale)
	}
	if old.HeightOffset != info.HeightOffset {
		fields = append(fields, FieldHeightOffset)
	}

	for _, f := range fields {
		s.conflicts++
		if s.OnConflict != nil {
			s.OnConflict(Conflict{Key: key, Field: f, Old: old, New: info})
		}
	}
}

// ByPath returns the settings stored for a texture path.
func (s *Store) ByPath(path string) (TextureInfo, bool) {
	info, ok := s.byPath[path]
	return info, ok
}

// ByID returns the settings stored for a height texture ID.
func (s *Store) ByID(id uint32) (TextureInfo, bool) {
	info, ok := s.byID[id]
	return info, ok
}

// PathCount returns the number of path keys.
func (s *Store) PathCount() int {
	return len(s.byPath)
}

// IDCount returns the number of ID keys.
func (s *Store) IDCount() int {
	return len(s.byID)
}

// Conflicts returns the number of conflicting fields seen so far.
func (s *Store) Conflicts() int {
	return s.conflicts
}

// insertPathIfMissing adds a path key without touching existing values.
func (s *Store) insertPathIfMissing(path string, info TextureInfo) bool {
	if _, ok := s.byPath[path]; ok {
		return false
	}
	s.byPath[path] = info
	return true
}

// insertIDIfMissing adds an ID key without touching existing values.
func (s *Store) insertIDIfMissing(id uint32, info TextureInfo) bool {
	if _, ok := s.byID[id]; ok {
		return false
	}
	s.byID[id] = info
	return true
}
