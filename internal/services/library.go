package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomfrance/sacha/internal/database/dberr"
	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/media"
)

// LevelStore is the local store of categories and words.
// Implemented by levels.Repository.
type LevelStore interface {
	AddCategory(ctx context.Context, title string, picture entities.Media) (uint, error)
	GetCategories(ctx context.Context) ([]entities.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*entities.Category, error)
	CategoryExists(ctx context.Context, id uint) (bool, error)
	UpdateCategory(ctx context.Context, id uint, title string, picture entities.Media) error
	MarkCategoryCompleted(ctx context.Context, id uint, completed bool) error
	DeleteCategory(ctx context.Context, id uint) error
	AddCategoryWithWords(ctx context.Context, title string, picture entities.Media, words []levels.NewWord) (uint, levels.BatchResult, error)

	AddWord(ctx context.Context, text string, audio, image entities.Media, categoryID *uint) (uint, error)
	AddWords(ctx context.Context, categoryID *uint, words []levels.NewWord) (levels.BatchResult, error)
	GetWords(ctx context.Context, categoryID *uint) ([]entities.Word, error)
	GetWordByID(ctx context.Context, id uint) (*entities.Word, error)
	CountWords(ctx context.Context, categoryID uint) (int64, error)
	CountWordsByCategory(ctx context.Context) (map[uint]int64, error)
	DeleteWord(ctx context.Context, id uint) error
}

// CategoryInput is the caller-supplied content of a level.
type CategoryInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Picture     []byte `json:"picture" validate:"min=1"`
	PictureType string `json:"picture_type"`
	PictureName string `json:"picture_name"`
}

// WordInput is the caller-supplied content of a word.
type WordInput struct {
	Text       string `json:"text" validate:"required,max=255"`
	Audio      []byte `json:"audio" validate:"min=1"`
	AudioType  string `json:"audio_type"`
	AudioName  string `json:"audio_name"`
	Image      []byte `json:"image" validate:"min=1"`
	ImageType  string `json:"image_type"`
	ImageName  string `json:"image_name"`
	CategoryID *uint  `json:"category_id"`
}

// CategorySummary is a level together with its number of words.
type CategorySummary struct {
	entities.Category
	WordCount int64 `json:"word_count"`
}

// Library validates caller input and applies it to the level store.
type Library struct {
	store    LevelStore
	detector *media.Detector
}

func NewLibrary(store LevelStore, detector *media.Detector) *Library {
	if detector == nil {
		detector = media.NewDetector(true)
	}
	return &Library{store: store, detector: detector}
}

func (l *Library) CreateCategory(ctx context.Context, in CategoryInput) (*entities.Category, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	id, err := l.store.AddCategory(ctx, in.Title, l.picture(in))
	if err != nil {
		return nil, err
	}
	return l.store.GetCategoryByID(ctx, id)
}

func (l *Library) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*entities.Category, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if err := l.store.UpdateCategory(ctx, id, in.Title, l.picture(in)); err != nil {
		return nil, err
	}
	return l.store.GetCategoryByID(ctx, id)
}

// CreateCategoryWithWords creates a level and as many of its words as
// possible. Invalid words are reported as failures next to the ones the
// store rejected.
func (l *Library) CreateCategoryWithWords(ctx context.Context, in CategoryInput, words []WordInput) (uint, levels.BatchResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return 0, levels.BatchResult{}, err
	}

	drafts, invalid := l.drafts(words)
	id, result, err := l.store.AddCategoryWithWords(ctx, in.Title, l.picture(in), drafts)
	result.Failed = append(invalid, result.Failed...)
	return id, result, err
}

func (l *Library) GetCategories(ctx context.Context) ([]CategorySummary, error) {
	categories, err := l.store.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := l.store.CountWordsByCategory(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]CategorySummary, len(categories))
	for i, c := range categories {
		summaries[i] = CategorySummary{Category: c, WordCount: counts[c.ID]}
	}
	return summaries, nil
}

func (l *Library) GetCategory(ctx context.Context, id uint) (*CategorySummary, error) {
	category, err := l.store.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := l.store.CountWords(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CategorySummary{Category: *category, WordCount: count}, nil
}

// SetCompleted flips the completion flag of a level. Unknown ids are ignored.
func (l *Library) SetCompleted(ctx context.Context, id uint, completed bool) error {
	return l.store.MarkCategoryCompleted(ctx, id, completed)
}

func (l *Library) DeleteCategory(ctx context.Context, id uint) error {
	return l.store.DeleteCategory(ctx, id)
}

// CreateWord validates and stores a word. A category id, when given, must
// refer to an existing level.
func (l *Library) CreateWord(ctx context.Context, in WordInput) (*entities.Word, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := l.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	draft := l.draft(in)
	id, err := l.store.AddWord(ctx, draft.Text, draft.Audio, draft.Image, in.CategoryID)
	if err != nil {
		return nil, err
	}
	return l.store.GetWordByID(ctx, id)
}

// AddWords stores several words into one level in batches.
func (l *Library) AddWords(ctx context.Context, categoryID *uint, words []WordInput) (levels.BatchResult, error) {
	if err := l.checkCategory(ctx, categoryID); err != nil {
		return levels.BatchResult{}, err
	}

	drafts, invalid := l.drafts(words)
	result, err := l.store.AddWords(ctx, categoryID, drafts)
	result.Failed = append(invalid, result.Failed...)
	return result, err
}

// GetWords lists the words of a level, or every word when categoryID is nil.
func (l *Library) GetWords(ctx context.Context, categoryID *uint) ([]entities.Word, error) {
	return l.store.GetWords(ctx, categoryID)
}

func (l *Library) GetWord(ctx context.Context, id uint) (*entities.Word, error) {
	return l.store.GetWordByID(ctx, id)
}

func (l *Library) DeleteWord(ctx context.Context, id uint) error {
	return l.store.DeleteWord(ctx, id)
}

func (l *Library) checkCategory(ctx context.Context, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	exists, err := l.store.CategoryExists(ctx, *categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("word category: %w", dberr.NotFound("category", *categoryID))
	}
	return nil
}

func (l *Library) picture(in CategoryInput) entities.Media {
	return entities.Media{
		MIMEType: l.detector.Normalize(in.PictureType, in.Picture, in.PictureName, media.KindImage),
		Data:     in.Picture,
	}
}

func (l *Library) draft(in WordInput) levels.NewWord {
	return levels.NewWord{
		Text: in.Text,
		Audio: entities.Media{
			MIMEType: l.detector.Normalize(in.AudioType, in.Audio, in.AudioName, media.KindAudio),
			Data:     in.Audio,
		},
		Image: entities.Media{
			MIMEType: l.detector.Normalize(in.ImageType, in.Image, in.ImageName, media.KindImage),
			Data:     in.Image,
		},
	}
}

func (l *Library) drafts(words []WordInput) ([]levels.NewWord, []levels.WordFailure) {
	var drafts []levels.NewWord
	var invalid []levels.WordFailure
	for _, w := range words {
		w.Text = strings.TrimSpace(w.Text)
		if err := validateStruct(w); err != nil {
			invalid = append(invalid, levels.WordFailure{Text: w.Text, Err: err})
			continue
		}
		drafts = append(drafts, l.draft(w))
	}
	return drafts, invalid
}
