package archive

import (
	"path"
	"regexp"
	"strings"

	"github.com/tomfrance/sacha/internal/media"
)

var backgroundName = regexp.MustCompile(`(?i)^(background|bg)\.(jpg|jpeg|png|webp)$`)

// Level describes one top-level directory of a bundle.
type Level struct {
	Directory string
	// Background is the entry name of the level picture, empty when the
	// directory has none and must be skipped.
	Background string
	Words      []WordFiles
	Dropped    []DroppedGroup
}

// HasBackground reports whether the level can be imported.
func (l Level) HasBackground() bool {
	return l.Background != ""
}

// WordFiles pairs the entries that make up one word.
type WordFiles struct {
	Name  string
	Image string
	Audio string
}

// DroppedGroup is a base name that did not form a word.
type DroppedGroup struct {
	Name   string
	Reason string
}

// Drop reasons.
const (
	ReasonMissingAudio = "missing audio"
	ReasonMissingImage = "missing image"
	ReasonManyImages   = "more than one image"
	ReasonManyAudio    = "more than one audio"
	ReasonNoMediaFound = "no supported media"
)

type group struct {
	name   string
	images []string
	audio  []string
	other  int
}

// Scan groups entry names into levels. Levels and their words keep the order
// in which they first appear in names. Entries at the root are ignored and
// nested directories never become levels of their own: their files join the
// top-level directory, grouped by leaf name.
func Scan(names []string) []Level {
	var dirs []string
	seen := make(map[string]bool)
	for _, name := range names {
		parts := strings.Split(name, "/")
		if len(parts) > 1 && parts[0] != "" && !seen[parts[0]] {
			seen[parts[0]] = true
			dirs = append(dirs, parts[0])
		}
	}

	levels := make([]Level, 0, len(dirs))
	for _, dir := range dirs {
		levels = append(levels, scanLevel(dir, names))
	}
	return levels
}

func scanLevel(dir string, names []string) Level {
	level := Level{Directory: dir}
	prefix := dir + "/"

	for _, name := range names {
		if strings.HasPrefix(name, prefix) && backgroundName.MatchString(name[len(prefix):]) {
			level.Background = name
			break
		}
	}

	// Every background candidate directly under the level is left out of
	// grouping, not only the one picked.
	var order []string
	groups := make(map[string]*group)
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) || strings.HasSuffix(name, "/") || backgroundName.MatchString(name[len(prefix):]) {
			continue
		}
		leaf := path.Base(name)
		base := strings.TrimSuffix(leaf, path.Ext(leaf))

		g, ok := groups[base]
		if !ok {
			g = &group{name: base}
			groups[base] = g
			order = append(order, base)
		}
		switch kind, _ := media.KindOf(leaf); kind {
		case media.KindImage:
			g.images = append(g.images, name)
		case media.KindAudio:
			g.audio = append(g.audio, name)
		default:
			g.other++
		}
	}

	for _, base := range order {
		g := groups[base]
		if reason := g.dropReason(); reason != "" {
			level.Dropped = append(level.Dropped, DroppedGroup{Name: g.name, Reason: reason})
			continue
		}
		level.Words = append(level.Words, WordFiles{
			Name:  g.name,
			Image: g.images[0],
			Audio: g.audio[0],
		})
	}
	return level
}

func (g *group) dropReason() string {
	switch {
	case len(g.images) == 0 && len(g.audio) == 0:
		return ReasonNoMediaFound
	case len(g.images) > 1:
		return ReasonManyImages
	case len(g.audio) > 1:
		return ReasonManyAudio
	case len(g.images) == 0:
		return ReasonMissingImage
	case len(g.audio) == 0:
		return ReasonMissingAudio
	}
	return ""
}
