package levels

import (
	"context"

	"gorm.io/gorm"

	"github.com/tomfrance/sacha/internal/database/dberr"
	"github.com/tomfrance/sacha/internal/entities"
)

// AddWord saves a single word. A nil categoryID stores it uncategorized.
func (r *Repository) AddWord(ctx context.Context, text string, audio, image entities.Media, categoryID *uint) (uint, error) {
	word := &entities.Word{
		Text:       text,
		Audio:      audio,
		Image:      image,
		CategoryID: categoryID,
	}
	if err := r.db.WithContext(ctx).Create(word).Error; err != nil {
		return 0, dberr.Storage("add word", err)
	}
	return word.ID, nil
}

// AddWords saves words in batches of BatchSize, one transaction per batch.
// Each word is written under its own savepoint: a failing word is reported in
// the result and the rest of the batch is still committed. Cancelling ctx
// stops the loop before the next batch; already committed batches are kept
// and ctx.Err() is returned together with the partial result.
func (r *Repository) AddWords(ctx context.Context, categoryID *uint, words []NewWord) (BatchResult, error) {
	var result BatchResult

	for start := 0; start < len(words); start += r.batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + r.batchSize
		if end > len(words) {
			end = len(words)
		}
		// A started batch always runs to commit.
		result.Merge(r.saveBatch(context.WithoutCancel(ctx), categoryID, words[start:end]))
	}

	return result, nil
}

func (r *Repository) saveBatch(ctx context.Context, categoryID *uint, batch []NewWord) BatchResult {
	var result BatchResult
	var saved []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, draft := range batch {
			word := entities.Word{
				Text:       draft.Text,
				Audio:      draft.Audio,
				Image:      draft.Image,
				CategoryID: categoryID,
			}
			err := tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(&word).Error
			})
			if err != nil {
				result.Failed = append(result.Failed, WordFailure{
					Text: draft.Text,
					Err:  dberr.Storage("add word", err),
				})
				continue
			}
			result.Created = append(result.Created, word.ID)
			saved = append(saved, draft.Text)
		}
		return nil
	})
	if err == nil {
		return result
	}

	// The commit failed: nothing from this batch was kept.
	for _, text := range saved {
		result.Failed = append(result.Failed, WordFailure{Text: text, Err: dberr.Storage("commit words", err)})
	}
	result.Created = nil
	return result
}

// GetWords returns the words of a category ordered by id, or every word when
// categoryID is nil.
func (r *Repository) GetWords(ctx context.Context, categoryID *uint) ([]entities.Word, error) {
	var words []entities.Word
	query := r.db.WithContext(ctx).Order("id ASC")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if err := query.Find(&words).Error; err != nil {
		return nil, dberr.Storage("get words", err)
	}
	return words, nil
}

func (r *Repository) GetWordByID(ctx context.Context, id uint) (*entities.Word, error) {
	var word entities.Word
	err := r.db.WithContext(ctx).First(&word, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, dberr.NotFound("word", id)
	}
	if err != nil {
		return nil, dberr.Storage("get word", err)
	}
	return &word, nil
}

// CountWords returns the number of words in a category.
func (r *Repository) CountWords(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Word{}).Where("category_id = ?", categoryID).Count(&count).Error
	if err != nil {
		return 0, dberr.Storage("count words", err)
	}
	return count, nil
}

// CountWordsByCategory returns word counts keyed by category id. Uncategorized
// words are not included.
func (r *Repository) CountWordsByCategory(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Count      int64
	}
	err := r.db.WithContext(ctx).
		Model(&entities.Word{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, dberr.Storage("count words by category", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}

// DeleteWord removes a word. Deleting an unknown id is not an error.
func (r *Repository) DeleteWord(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&entities.Word{}, id).Error
	return dberr.Storage("delete word", err)
}
