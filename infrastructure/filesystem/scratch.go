package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrSameFile is returned when staging would overwrite the file being read
var ErrSameFile = errors.New("staged file would overwrite its source")

// Scratch is the shared working directory for staged inputs and outputs.
//
// Files are named after the upload name only, so two sessions staging the same
// name at once will overwrite each other's input and output.
type Scratch struct {
	dir string
}

// NewScratch returns a Scratch rooted at dir, or the OS temp dir when dir is empty
func NewScratch(dir string) *Scratch {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Scratch{dir: dir}
}

// Dir returns the scratch directory
func (s *Scratch) Dir() string {
	return s.dir
}

// Path returns the scratch location for a file name, dropping any directory part
func (s *Scratch) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Stage copies an uploaded payload into the scratch directory under its upload name
func (s *Scratch) Stage(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}

	path := s.Path(name)
	if src, ok := r.(*os.File); ok && sameFile(src, path) {
		return "", fmt.Errorf("failed to stage %s: %w", name, ErrSameFile)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	return path, nil
}

// Remove deletes a staged file; a file that is already gone is not an error
func (s *Scratch) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sameFile reports whether path already names the open file src
func sameFile(src *os.File, path string) bool {
	srcInfo, err := src.Stat()
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(srcInfo, dstInfo)
}
