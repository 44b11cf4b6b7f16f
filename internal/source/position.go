package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const positionFileName = "position.json"

// Position records how far into an input file records have been read, so a
// restarted tailer resumes instead of skipping or repeating lines.
type Position struct {
	// Path is the input file the offset belongs to.
	Path string `json:"path"`

	// Offset is the byte offset just past the last complete line read.
	Offset int64 `json:"offset"`

	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty returns true if no position has been saved.
func (p Position) IsEmpty() bool {
	return p.Path == ""
}

// PositionStore persists the read position.
type PositionStore interface {
	// Load returns the saved position, or an empty one and a nil error when
	// nothing was saved yet.
	Load(ctx context.Context) (Position, error)

	// Save persists p atomically.
	Save(ctx context.Context, p Position) error
}

// FilePositionStore keeps the position in a JSON file inside a directory.
type FilePositionStore struct {
	dir string
}

var _ PositionStore = (*FilePositionStore)(nil)

// NewFilePositionStore creates a store writing to dir/position.json.
func NewFilePositionStore(dir string) *FilePositionStore {
	return &FilePositionStore{dir: dir}
}

// Load reads the position file. A missing file is not an error.
func (s *FilePositionStore) Load(ctx context.Context) (Position, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return Position{}, nil
		}
		return Position{}, err
	}

	var p Position
	if err := json.Unmarshal(data, &p); err != nil {
		return Position{}, err
	}
	return p, nil
}

// Save writes to a temp file and renames it over the old one.
func (s *FilePositionStore) Save(ctx context.Context, p Position) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	path := s.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the position file.
func (s *FilePositionStore) Path() string {
	return filepath.Join(s.dir, positionFileName)
}
