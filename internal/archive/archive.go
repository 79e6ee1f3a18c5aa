// Package archive reads level bundles packed as ZIP files.
//
// A bundle holds one top-level directory per level. Each directory carries a
// background picture named background.<ext> or bg.<ext> and any number of
// words, each made of an image and a sound sharing the same base name:
//
//	animals/background.jpg
//	animals/cat.jpg
//	animals/cat.mp3
//	animals/dog.png
//	animals/dog.ogg
//
// Scan turns the entry names into a Plan; Archive gives access to the bytes.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultMaxEntrySize bounds how much a single entry may inflate to.
const DefaultMaxEntrySize int64 = 64 << 20

var (
	// ErrEntryNotFound indicates the archive has no entry with the given name.
	ErrEntryNotFound = errors.New("archive entry not found")
	// ErrEntryTooLarge indicates an entry exceeds the configured size limit.
	ErrEntryTooLarge = errors.New("archive entry too large")
)

// Archive is an opened ZIP file.
type Archive struct {
	reader       *zip.Reader
	closer       io.Closer
	entries      map[string]*zip.File
	names        []string
	maxEntrySize int64
}

// Open opens the ZIP file at path.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	a := newArchive(&rc.Reader)
	a.closer = rc
	return a, nil
}

// NewArchive reads a ZIP file held in r.
func NewArchive(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return newArchive(zr), nil
}

// OpenFile stats f and reads it as a ZIP file. The caller keeps ownership
// of f.
func OpenFile(f *os.File) (*Archive, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}
	return NewArchive(f, info.Size())
}

func newArchive(zr *zip.Reader) *Archive {
	a := &Archive{
		reader:       zr,
		entries:      make(map[string]*zip.File, len(zr.File)),
		maxEntrySize: DefaultMaxEntrySize,
	}
	for _, f := range zr.File {
		a.names = append(a.names, f.Name)
		if f.FileInfo().IsDir() {
			continue
		}
		if _, dup := a.entries[f.Name]; !dup {
			a.entries[f.Name] = f
		}
	}
	return a
}

// SetMaxEntrySize changes the per-entry size limit. Values below 1 restore
// the default.
func (a *Archive) SetMaxEntrySize(limit int64) {
	if limit < 1 {
		limit = DefaultMaxEntrySize
	}
	a.maxEntrySize = limit
}

// Names returns every entry name, directories included, in archive order.
func (a *Archive) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// ReadFile returns the uncompressed content of the named entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	f, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryNotFound)
	}
	if f.UncompressedSize64 > uint64(a.maxEntrySize) {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryTooLarge)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	// The header size can lie; never inflate past the limit.
	data, err := io.ReadAll(io.LimitReader(rc, a.maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if int64(len(data)) > a.maxEntrySize {
		return nil, fmt.Errorf("%s: %w", name, ErrEntryTooLarge)
	}
	return data, nil
}

// Close releases the underlying file when the archive was opened by path.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
