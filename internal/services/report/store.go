package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a requested report does not exist.
var ErrNotFound = errors.New("report not found")

// Store is the report directory. Files are only ever created, never
// rewritten, so concurrent sessions can share it without locking.
type Store struct {
	dir string
}

// NewStore opens dir, creating it if it does not exist yet.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory reports are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Create writes content to a new file called filename and returns its path.
// Go Pattern: O_EXCL makes the create fail if the file exists, so a
// duplicate identifier can never clobber an earlier report.
func (s *Store) Create(filename string, content []byte) (string, error) {
	if !isPlainName(filename) {
		return "", fmt.Errorf("invalid report filename %q", filename)
	}

	path := filepath.Join(s.dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close report file: %w", err)
	}
	return path, nil
}

// Resolve returns the path of an existing report. Anything that is not a
// plain file name inside the store (e.g. "../etc/passwd") is reported as
// ErrNotFound.
func (s *Store) Resolve(filename string) (string, error) {
	if !isPlainName(filename) {
		return "", ErrNotFound
	}

	path := filepath.Join(s.dir, filename)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return path, nil
}

// isPlainName reports whether name is a single path element.
func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}
