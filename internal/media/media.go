// Package media classifies pictures and sounds by file name and content.
package media

import (
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the role a payload plays for a word or a level.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

// Fallback MIME types used when neither content nor extension tell.
const (
	DefaultImageType = "image/jpeg"
	DefaultAudioType = "audio/mpeg"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

var audioTypes = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".ogg": "audio/ogg",
	".m4a": "audio/mp4",
}

// Backgrounds may not be animated.
var backgroundExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Ext returns the lower-cased extension of name, dot included.
func Ext(name string) string {
	return strings.ToLower(path.Ext(name))
}

// KindOf classifies a file by extension, case-insensitively.
func KindOf(name string) (Kind, bool) {
	ext := Ext(name)
	if _, ok := imageTypes[ext]; ok {
		return KindImage, true
	}
	if _, ok := audioTypes[ext]; ok {
		return KindAudio, true
	}
	return "", false
}

// IsBackgroundExt reports whether name has an extension allowed for a level
// background.
func IsBackgroundExt(name string) bool {
	return backgroundExts[Ext(name)]
}

// DefaultType returns the fallback MIME type for kind.
func DefaultType(kind Kind) string {
	if kind == KindAudio {
		return DefaultAudioType
	}
	return DefaultImageType
}

// TypeByExtension maps a file name to a MIME type of the given kind, or ""
// when the extension is unknown for that kind.
func TypeByExtension(name string, kind Kind) string {
	table := imageTypes
	if kind == KindAudio {
		table = audioTypes
	}
	return table[Ext(name)]
}

// Detector resolves the MIME type of a payload.
type Detector struct {
	sniff bool
}

// NewDetector returns a detector. With sniff enabled the payload bytes are
// inspected first and the file extension is only a fallback.
func NewDetector(sniff bool) *Detector {
	return &Detector{sniff: sniff}
}

// Detect returns a MIME type of the requested kind for data. It never
// returns an empty string: unknown payloads get DefaultType(kind).
func (d *Detector) Detect(data []byte, filename string, kind Kind) string {
	if d.sniff && len(data) > 0 {
		detected := mimetype.Detect(data)
		for m := detected; m != nil; m = m.Parent() {
			if strings.HasPrefix(m.String(), string(kind)+"/") {
				return stripParams(m.String())
			}
		}
	}
	if t := TypeByExtension(filename, kind); t != "" {
		return t
	}
	return DefaultType(kind)
}

// Normalize keeps a declared MIME type when it belongs to kind and otherwise
// falls back to Detect.
func (d *Detector) Normalize(declared string, data []byte, filename string, kind Kind) string {
	declared = strings.ToLower(stripParams(strings.TrimSpace(declared)))
	if strings.HasPrefix(declared, string(kind)+"/") {
		return declared
	}
	return d.Detect(data, filename, kind)
}

func stripParams(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		return strings.TrimSpace(mime[:i])
	}
	return mime
}
