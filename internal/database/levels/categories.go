package levels

import (
	"context"

	"gorm.io/gorm"

	"github.com/tomfrance/sacha/internal/database/dberr"
	"github.com/tomfrance/sacha/internal/entities"
)

// AddCategory creates a new, not yet completed category and returns its id.
func (r *Repository) AddCategory(ctx context.Context, title string, picture entities.Media) (uint, error) {
	category := &entities.Category{
		Title:   title,
		Picture: picture,
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return 0, dberr.Storage("add category", err)
	}
	return category.ID, nil
}

// GetCategories returns every category ordered by id.
func (r *Repository) GetCategories(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, dberr.Storage("get categories", err)
	}
	return categories, nil
}

func (r *Repository) GetCategoryByID(ctx context.Context, id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, dberr.NotFound("category", id)
	}
	if err != nil {
		return nil, dberr.Storage("get category", err)
	}
	return &category, nil
}

// CategoryExists reports whether a category with id is stored.
func (r *Repository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Category{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, dberr.Storage("check category", err)
	}
	return count > 0, nil
}

// UpdateCategory replaces the title and picture. The completion flag and the
// creation time are left untouched.
func (r *Repository) UpdateCategory(ctx context.Context, id uint, title string, picture entities.Media) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":             title,
			"picture_mime_type": picture.MIMEType,
			"picture_data":      picture.Data,
		})
	if result.Error != nil {
		return dberr.Storage("update category", result.Error)
	}
	if result.RowsAffected == 0 {
		return dberr.NotFound("category", id)
	}
	return nil
}

// MarkCategoryCompleted sets the completion flag. Unknown ids are ignored.
func (r *Repository) MarkCategoryCompleted(ctx context.Context, id uint, completed bool) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Category{}).
		Where("id = ?", id).
		Update("is_completed", completed).Error
	return dberr.Storage("mark category completed", err)
}

// DeleteCategory removes the category and all its words atomically.
// Deleting an unknown id is not an error.
func (r *Repository) DeleteCategory(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&entities.Word{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Category{}, id).Error
	})
	return dberr.Storage("delete category", err)
}

// AddCategoryWithWords creates a category and then saves words into it in
// batches. The category survives even when some or all words fail.
func (r *Repository) AddCategoryWithWords(ctx context.Context, title string, picture entities.Media, words []NewWord) (uint, BatchResult, error) {
	id, err := r.AddCategory(ctx, title, picture)
	if err != nil {
		return 0, BatchResult{}, err
	}

	result, err := r.AddWords(ctx, &id, words)
	return id, result, err
}
