package levels

import (
	"context"

	"github.com/tomfrance/sacha/internal/database/dberr"
	"github.com/tomfrance/sacha/internal/entities"
)

// Stats summarises the store contents.
type Stats struct {
	Levels             int64 `json:"levels"`
	CompletedLevels    int64 `json:"completed_levels"`
	Words              int64 `json:"words"`
	UncategorizedWords int64 `json:"uncategorized_words"`
}

// Stats counts levels and words without loading any payloads.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	db := r.db.WithContext(ctx)

	if err := db.Model(&entities.Category{}).Count(&stats.Levels).Error; err != nil {
		return Stats{}, dberr.Storage("count levels", err)
	}
	if err := db.Model(&entities.Category{}).Where("is_completed = ?", true).Count(&stats.CompletedLevels).Error; err != nil {
		return Stats{}, dberr.Storage("count completed levels", err)
	}
	if err := db.Model(&entities.Word{}).Count(&stats.Words).Error; err != nil {
		return Stats{}, dberr.Storage("count words", err)
	}
	if err := db.Model(&entities.Word{}).Where("category_id IS NULL").Count(&stats.UncategorizedWords).Error; err != nil {
		return Stats{}, dberr.Storage("count uncategorized words", err)
	}
	return stats, nil
}
