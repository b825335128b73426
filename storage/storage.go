// Package storage persists the board document on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"boardd/board"
	"boardd/domain"
)

// ErrUndecodable is returned when the document exists but is not valid UTF-8
// text. A missing document is not an error; a broken one is.
var ErrUndecodable = errors.New("board document is not valid UTF-8")

// Store reads and writes the board document. Writes go through a temporary
// file and an atomic rename, so a concurrent reader never observes a partial
// write. There is no locking; a racing write is resolved by rename ordering
// (last write wins).
type Store struct {
	path func() string
	log  *log.Logger
}

// New creates a Store bound to a fixed document path.
func New(path string, logger *log.Logger) *Store {
	return NewDynamic(func() string { return path }, logger)
}

// NewDynamic creates a Store that resolves the document path on every
// operation, so configuration changes take effect without restarting.
func NewDynamic(path func() string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Store{path: path, log: logger}
}

// Path returns the document path the store currently resolves to.
func (s *Store) Path() string {
	return s.path()
}

// Read loads and parses the document. A missing document returns (nil, zero,
// nil) so the caller may materialize a default board. The returned
// modification time lets callers reason about staleness; the store itself
// enforces no concurrency policy beyond exposing it.
func (s *Store) Read() (*domain.Board, time.Time, error) {
	path := s.path()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("read board: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, time.Time{}, fmt.Errorf("%w: %s", ErrUndecodable, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("stat board: %w", err)
	}
	return board.Parse(string(data)), info.ModTime(), nil
}

// Write serializes the board and atomically replaces the document, creating
// parent directories on demand. On failure the original document is left
// untouched and the temporary file is removed.
func (s *Store) Write(b *domain.Board) (time.Time, error) {
	path := s.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return time.Time{}, fmt.Errorf("create board dir: %w", err)
	}
	text := board.Serialize(b)
	if err := WriteAtomic(path, []byte(text)); err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat board: %w", err)
	}
	s.log.WithFields(log.Fields{"path": path, "bytes": len(text)}).Debug("board written")
	return info.ModTime(), nil
}

// WriteAtomic writes data to a fresh temporary file in the target's directory
// and renames it over the target. The temporary name carries a UUID so racing
// writers never collide on it.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace board file: %w", err)
	}
	return nil
}
