package importers

import (
	"context"
	"fmt"
	"log"
	"path"

	"github.com/tomfrance/sacha/internal/archive"
	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/media"
)

// Store persists imported levels.
type Store interface {
	AddCategory(ctx context.Context, title string, picture entities.Media) (uint, error)
	AddWords(ctx context.Context, categoryID *uint, words []levels.NewWord) (levels.BatchResult, error)
}

// Source gives access to the entries of a bundle. *archive.Archive
// implements it.
type Source interface {
	Names() []string
	ReadFile(name string) ([]byte, error)
}

var _ Source = (*archive.Archive)(nil)

// Options tune an Importer. Zero values select defaults.
type Options struct {
	// BatchSize is the number of words read and saved together.
	BatchSize int
	// MaxEntrySize bounds a single archive entry when importing from a file.
	MaxEntrySize int64
	// Detector resolves MIME types; defaults to content sniffing.
	Detector *media.Detector
}

// Importer creates categories and words from level bundles.
type Importer struct {
	store        Store
	batchSize    int
	maxEntrySize int64
	detector     *media.Detector
}

func NewImporter(store Store, opts Options) *Importer {
	if opts.BatchSize < 1 {
		opts.BatchSize = levels.DefaultBatchSize
	}
	if opts.MaxEntrySize < 1 {
		opts.MaxEntrySize = archive.DefaultMaxEntrySize
	}
	if opts.Detector == nil {
		opts.Detector = media.NewDetector(true)
	}
	return &Importer{
		store:        store,
		batchSize:    opts.BatchSize,
		maxEntrySize: opts.MaxEntrySize,
		detector:     opts.Detector,
	}
}

// ImportFile imports the ZIP file at path.
func (i *Importer) ImportFile(ctx context.Context, zipPath string, progress ProgressFunc) (Result, error) {
	bundle, err := archive.Open(zipPath)
	if err != nil {
		return Result{}, err
	}
	defer bundle.Close()
	bundle.SetMaxEntrySize(i.maxEntrySize)

	return i.Import(ctx, bundle, progress)
}

// Import walks every level of src. The returned error is non-nil only when
// ctx is cancelled; the result then covers what was committed so far.
func (i *Importer) Import(ctx context.Context, src Source, progress ProgressFunc) (Result, error) {
	if progress == nil {
		progress = func(Event) {}
	}

	plan := archive.Scan(src.Names())
	result := Result{LevelsTotal: len(plan)}

	log.Printf("[IMPORT] Starting import of %d levels", len(plan))

	for idx, level := range plan {
		if err := ctx.Err(); err != nil {
			log.Printf("[IMPORT] Cancelled after %d of %d levels", result.LevelsProcessed, len(plan))
			return result, err
		}

		ev := Event{Directory: level.Directory, Index: idx + 1, Total: len(plan)}
		if err := i.importLevel(ctx, src, level, ev, &result, progress); err != nil {
			return result, err
		}
		result.LevelsProcessed++
	}

	log.Printf("[IMPORT] Finished: %s", result.Summary())
	progress(Event{Type: EventSummary, Total: len(plan), Index: len(plan), Result: &result})

	return result, nil
}

func (i *Importer) importLevel(ctx context.Context, src Source, level archive.Level, ev Event, result *Result, progress ProgressFunc) error {
	started := ev
	started.Type = EventLevelStarted
	progress(started)

	if !level.HasBackground() {
		i.skipLevel(level.Directory, ReasonMissingBackground, ev, result, progress)
		return nil
	}

	data, err := src.ReadFile(level.Background)
	if err != nil {
		i.skipLevel(level.Directory, fmt.Sprintf("failed to read background: %v", err), ev, result, progress)
		return nil
	}
	picture := entities.Media{
		MIMEType: i.detector.Detect(data, level.Background, media.KindImage),
		Data:     data,
	}

	categoryID, err := i.store.AddCategory(ctx, level.Directory, picture)
	if err != nil {
		i.skipLevel(level.Directory, fmt.Sprintf("failed to create category: %v", err), ev, result, progress)
		return nil
	}
	result.CategoriesCreated++
	result.CategoryIDs = append(result.CategoryIDs, categoryID)
	ev.CategoryID = categoryID

	for start := 0; start < len(level.Words); start += i.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + i.batchSize
		if end > len(level.Words) {
			end = len(level.Words)
		}

		drafts := i.readWords(src, level.Directory, level.Words[start:end], ev, result, progress)
		if len(drafts) == 0 {
			continue
		}

		batch, err := i.store.AddWords(ctx, &categoryID, drafts)
		ev.WordsCreated += len(batch.Created)
		result.WordsCreated += len(batch.Created)
		for _, failure := range batch.Failed {
			i.wordFailed(level.Directory, failure.Text, failure.Err.Error(), ev, result, progress)
		}
		if err != nil {
			return err
		}
	}

	log.Printf("[IMPORT] Level %q: %d words", level.Directory, ev.WordsCreated)
	completed := ev
	completed.Type = EventLevelCompleted
	progress(completed)
	return nil
}

// readWords extracts the payloads of a batch. Words whose files cannot be
// read are reported and left out.
func (i *Importer) readWords(src Source, dir string, words []archive.WordFiles, ev Event, result *Result, progress ProgressFunc) []levels.NewWord {
	drafts := make([]levels.NewWord, 0, len(words))
	for _, w := range words {
		image, err := src.ReadFile(w.Image)
		if err != nil {
			i.wordFailed(dir, w.Name, fmt.Sprintf("failed to read %s: %v", path.Base(w.Image), err), ev, result, progress)
			continue
		}
		audio, err := src.ReadFile(w.Audio)
		if err != nil {
			i.wordFailed(dir, w.Name, fmt.Sprintf("failed to read %s: %v", path.Base(w.Audio), err), ev, result, progress)
			continue
		}
		drafts = append(drafts, levels.NewWord{
			Text:  w.Name,
			Image: entities.Media{MIMEType: i.detector.Detect(image, w.Image, media.KindImage), Data: image},
			Audio: entities.Media{MIMEType: i.detector.Detect(audio, w.Audio, media.KindAudio), Data: audio},
		})
	}
	return drafts
}

func (i *Importer) skipLevel(dir, reason string, ev Event, result *Result, progress ProgressFunc) {
	log.Printf("[IMPORT] Skipping level %q: %s", dir, reason)
	warning := Warning{Directory: dir, Reason: reason}
	result.Warnings = append(result.Warnings, warning)

	ev.Type = EventLevelSkipped
	ev.Warning = &warning
	progress(ev)
}

func (i *Importer) wordFailed(dir, word, reason string, ev Event, result *Result, progress ProgressFunc) {
	log.Printf("[IMPORT] Word %q in %q failed: %s", word, dir, reason)
	warning := Warning{Directory: dir, Word: word, Reason: reason}
	result.Warnings = append(result.Warnings, warning)
	result.WordsFailed++

	ev.Type = EventWordFailed
	ev.Warning = &warning
	progress(ev)
}
