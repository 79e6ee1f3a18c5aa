package exporters

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tomfrance/sacha/internal/entities"
)

const (
	LevelsSheet = "Levels"
	WordsSheet  = "Words"
)

// InventoryStore is the read side of the level store needed for an export.
// Implemented by levels.Repository.
type InventoryStore interface {
	GetCategories(ctx context.Context) ([]entities.Category, error)
	GetWords(ctx context.Context, categoryID *uint) ([]entities.Word, error)
	CountWordsByCategory(ctx context.Context) (map[uint]int64, error)
}

// InventoryResult counts what went into a workbook.
type InventoryResult struct {
	Levels int `json:"levels"`
	Words  int `json:"words"`
}

// InventoryExporter writes every level and word into an xlsx workbook so a
// caregiver can review the content offline. Media payloads are not included,
// only their types.
type InventoryExporter struct {
	store InventoryStore
}

func NewInventoryExporter(store InventoryStore) *InventoryExporter {
	return &InventoryExporter{store: store}
}

// Write streams the workbook to w.
func (e *InventoryExporter) Write(ctx context.Context, w io.Writer) (InventoryResult, error) {
	f, result, err := e.build(ctx)
	if err != nil {
		return result, err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return result, fmt.Errorf("failed to write workbook: %w", err)
	}
	return result, nil
}

// WriteFile saves the workbook at path.
func (e *InventoryExporter) WriteFile(ctx context.Context, path string) (InventoryResult, error) {
	out, err := os.Create(path)
	if err != nil {
		return InventoryResult{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	result, err := e.Write(ctx, out)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
	}
	return result, err
}

func (e *InventoryExporter) build(ctx context.Context) (*excelize.File, InventoryResult, error) {
	var result InventoryResult

	categories, err := e.store.GetCategories(ctx)
	if err != nil {
		return nil, result, fmt.Errorf("failed to load categories: %w", err)
	}
	words, err := e.store.GetWords(ctx, nil)
	if err != nil {
		return nil, result, fmt.Errorf("failed to load words: %w", err)
	}
	counts, err := e.store.CountWordsByCategory(ctx)
	if err != nil {
		return nil, result, fmt.Errorf("failed to count words: %w", err)
	}

	titles := make(map[uint]string, len(categories))
	for _, c := range categories {
		titles[c.ID] = c.Title
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", LevelsSheet); err != nil {
		f.Close()
		return nil, result, err
	}
	if _, err := f.NewSheet(WordsSheet); err != nil {
		f.Close()
		return nil, result, err
	}

	levelRows := [][]interface{}{{"ID", "Title", "Completed", "Words", "Picture type", "Created"}}
	for _, c := range categories {
		levelRows = append(levelRows, []interface{}{
			c.ID, c.Title, c.IsCompleted, counts[c.ID], c.Picture.MIMEType, formatTime(c.CreatedAt),
		})
	}

	wordRows := [][]interface{}{{"ID", "Text", "Level", "Image type", "Audio type", "Created"}}
	for _, w := range words {
		level := ""
		if w.CategoryID != nil {
			level = titles[*w.CategoryID]
		}
		wordRows = append(wordRows, []interface{}{
			w.ID, w.Text, level, w.Image.MIMEType, w.Audio.MIMEType, formatTime(w.CreatedAt),
		})
	}

	if err := writeSheet(f, LevelsSheet, levelRows); err != nil {
		f.Close()
		return nil, result, err
	}
	if err := writeSheet(f, WordsSheet, wordRows); err != nil {
		f.Close()
		return nil, result, err
	}

	result.Levels = len(categories)
	result.Words = len(words)
	return f, result, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", header); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 32)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
