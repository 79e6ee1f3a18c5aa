package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Entry is a file to be packed into a bundle. Names ending in "/" are
// written as directory entries.
type Entry struct {
	Name string
	Data []byte
}

// Write packs entries into a ZIP stream in the given order.
func Write(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if strings.HasSuffix(e.Name, "/") {
			if _, err := zw.Create(e.Name); err != nil {
				return fmt.Errorf("failed to add directory %s: %w", e.Name, err)
			}
			continue
		}
		fw, err := zw.Create(e.Name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Name, err)
		}
	}
	return zw.Close()
}

// Bytes packs entries into an in-memory ZIP file.
func Bytes(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
