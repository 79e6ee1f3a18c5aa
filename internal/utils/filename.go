package utils

import (
	"path"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a user-supplied name safe to show back in a
// Content-Disposition header or to log. It strips path separators and
// control characters and caps the length.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)
	filename = strings.Trim(filename, ".")

	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}

	if filename == "" {
		filename = "Untitled"
	}

	return filename
}

// UploadName returns the display name for an uploaded file: the last path
// element of what the browser sent, sanitized. Some browsers send full
// client paths, with either separator.
func UploadName(clientName string) string {
	clientName = strings.ReplaceAll(clientName, `\`, "/")
	return SanitizeFilename(path.Base(clientName))
}
