package importers

import (
	"fmt"

	"github.com/tomfrance/sacha/internal/entities"
)

// Warning is a non-fatal problem met during an import.
type Warning = entities.ImportWarning

// Warning reasons produced by the importer. Storage failures carry the
// underlying error text instead.
const (
	ReasonMissingBackground = "no background image (background|bg).(jpg|jpeg|png|webp)"
)

type EventType string

const (
	EventLevelStarted   EventType = "level_started"
	EventLevelSkipped   EventType = "level_skipped"
	EventWordFailed     EventType = "word_failed"
	EventLevelCompleted EventType = "level_completed"
	EventSummary        EventType = "summary"
)

// Event reports import progress. Index is 1-based and counts levels in
// archive order out of Total.
type Event struct {
	Type       EventType
	Directory  string
	Index      int
	Total      int
	CategoryID uint
	// WordsCreated counts the words saved for the current level.
	WordsCreated int
	Warning      *Warning
	// Result is set on EventSummary only.
	Result *Result
}

// ProgressFunc receives import events.
type ProgressFunc func(Event)

// Result summarises an import.
type Result struct {
	LevelsTotal       int
	LevelsProcessed   int
	CategoriesCreated int
	WordsCreated      int
	WordsFailed       int
	CategoryIDs       []uint
	Warnings          []Warning
}

// Summary renders the result as a single human-readable line.
func (r Result) Summary() string {
	return fmt.Sprintf("imported %d of %d levels with %d words (%d warnings)",
		r.CategoriesCreated, r.LevelsTotal, r.WordsCreated, len(r.Warnings))
}

func (e Event) String() string {
	switch e.Type {
	case EventLevelStarted:
		return fmt.Sprintf("processing level %d of %d: %s", e.Index, e.Total, e.Directory)
	case EventLevelSkipped:
		return fmt.Sprintf("skipped level %d of %d: %s (%s)", e.Index, e.Total, e.Directory, e.Warning.Reason)
	case EventWordFailed:
		return fmt.Sprintf("word %q in %s failed: %s", e.Warning.Word, e.Directory, e.Warning.Reason)
	case EventLevelCompleted:
		return fmt.Sprintf("level %d of %d: %s done, %d words", e.Index, e.Total, e.Directory, e.WordsCreated)
	case EventSummary:
		return e.Result.Summary()
	}
	return string(e.Type)
}
