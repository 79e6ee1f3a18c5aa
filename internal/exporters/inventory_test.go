package exporters

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tomfrance/sacha/internal/entities"
)

type fakeInventory struct {
	categories []entities.Category
	words      []entities.Word
	err        error
}

func (f *fakeInventory) GetCategories(ctx context.Context) ([]entities.Category, error) {
	return f.categories, f.err
}

func (f *fakeInventory) GetWords(ctx context.Context, categoryID *uint) ([]entities.Word, error) {
	return f.words, nil
}

func (f *fakeInventory) CountWordsByCategory(ctx context.Context) (map[uint]int64, error) {
	counts := map[uint]int64{}
	for _, w := range f.words {
		if w.CategoryID != nil {
			counts[*w.CategoryID]++
		}
	}
	return counts, nil
}

func newFakeInventory() *fakeInventory {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	animals := uint(1)
	return &fakeInventory{
		categories: []entities.Category{
			{ID: 1, Title: "Animals", IsCompleted: true, Picture: entities.Media{MIMEType: "image/jpeg"}, CreatedAt: created},
			{ID: 2, Title: "Colours", Picture: entities.Media{MIMEType: "image/png"}, CreatedAt: created},
		},
		words: []entities.Word{
			{ID: 10, Text: "cat", CategoryID: &animals, Image: entities.Media{MIMEType: "image/png"}, Audio: entities.Media{MIMEType: "audio/mpeg"}, CreatedAt: created},
			{ID: 11, Text: "dog", CategoryID: &animals, Image: entities.Media{MIMEType: "image/jpeg"}, Audio: entities.Media{MIMEType: "audio/wav"}, CreatedAt: created},
			{ID: 12, Text: "ball", Image: entities.Media{MIMEType: "image/gif"}, Audio: entities.Media{MIMEType: "audio/ogg"}, CreatedAt: created},
		},
	}
}

func TestInventoryExporter_Write(t *testing.T) {
	var buf bytes.Buffer
	result, err := NewInventoryExporter(newFakeInventory()).Write(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, InventoryResult{Levels: 2, Words: 3}, result)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{LevelsSheet, WordsSheet}, f.GetSheetList())

	levels, err := f.GetRows(LevelsSheet)
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, []string{"ID", "Title", "Completed", "Words", "Picture type", "Created"}, levels[0])
	assert.Equal(t, []string{"1", "Animals", "TRUE", "2", "image/jpeg", "2024-03-01T09:30:00Z"}, levels[1])
	assert.Equal(t, "0", levels[2][3])

	words, err := f.GetRows(WordsSheet)
	require.NoError(t, err)
	require.Len(t, words, 4)
	assert.Equal(t, []string{"10", "cat", "Animals", "image/png", "audio/mpeg", "2024-03-01T09:30:00Z"}, words[1])
	assert.Equal(t, "", words[3][2], "uncategorized words have no level")
}

func TestInventoryExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	result, err := NewInventoryExporter(&fakeInventory{}).Write(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, InventoryResult{}, result)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(LevelsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestInventoryExporter_StoreError(t *testing.T) {
	store := &fakeInventory{err: errors.New("disk I/O error")}
	_, err := NewInventoryExporter(store).Write(context.Background(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to load categories")
}

func TestInventoryExporter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")

	result, err := NewInventoryExporter(newFakeInventory()).WriteFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Levels)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(WordsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
