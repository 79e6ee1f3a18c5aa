// Package storage keeps uploaded archives on local disk until they have been
// imported.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrTooLarge indicates an upload exceeded the size limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// FileInfo contains metadata about a spooled file.
type FileInfo struct {
	Name       string
	Path       string
	Size       int64
	ModifiedAt time.Time
}

// Spool is a directory of uploaded files with generated names.
type Spool struct {
	dir string
	ext string
}

// NewSpool creates the directory if needed. Stored files get ext appended
// to their generated name.
func NewSpool(dir, ext string) (*Spool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	return &Spool{dir: abs, ext: ext}, nil
}

func (s *Spool) Dir() string {
	return s.dir
}

// Save copies r into a new file. When maxBytes is positive and r holds more,
// the partial file is removed and ErrTooLarge returned.
func (s *Spool) Save(r io.Reader, maxBytes int64) (FileInfo, error) {
	name := uuid.New().String() + s.ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create upload file: %w", err)
	}

	src := r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	written, err := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case err != nil:
		os.Remove(path)
		return FileInfo{}, fmt.Errorf("failed to write upload file: %w", err)
	case closeErr != nil:
		os.Remove(path)
		return FileInfo{}, fmt.Errorf("failed to close upload file: %w", closeErr)
	case maxBytes > 0 && written > maxBytes:
		os.Remove(path)
		return FileInfo{}, ErrTooLarge
	}

	return FileInfo{Name: name, Path: path, Size: written, ModifiedAt: time.Now()}, nil
}

// Remove deletes a spooled file. Missing files and paths outside the spool
// are ignored.
func (s *Spool) Remove(path string) error {
	if !s.owns(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// List returns the spooled files.
func (s *Spool) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:       entry.Name(),
			Path:       filepath.Join(s.dir, entry.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return files, nil
}

// RemoveOlderThan deletes files last modified before cutoff and returns how
// many were removed.
func (s *Spool) RemoveOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	files, err := s.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !f.ModifiedAt.Before(cutoff) {
			continue
		}
		if err := s.Remove(f.Path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *Spool) owns(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == s.dir
}
