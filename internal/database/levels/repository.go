// Package levels is the local store for categories (levels) and their words.
//
// All payloads are kept inline in SQLite. Writes that touch several rows
// (deleting a category with its words, saving a batch of words) run inside a
// transaction; batch saves are best-effort per word through savepoints so one
// bad word never rolls back its neighbours.
//
// # Interface Implementation
//
//	var _ services.LevelStore = (*Repository)(nil)
//	var _ importers.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := levels.NewRepository(db)
//	id, err := repo.AddCategory(ctx, "Animals", picture)
//	result, err := repo.AddWords(ctx, &id, drafts)
package levels

import (
	"gorm.io/gorm"

	"github.com/tomfrance/sacha/internal/entities"
)

// DefaultBatchSize is the number of words committed per transaction.
const DefaultBatchSize = 5

// Repository handles category and word persistence.
type Repository struct {
	db        *gorm.DB
	batchSize int
}

// NewRepository creates a repository using DefaultBatchSize.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, batchSize: DefaultBatchSize}
}

// SetBatchSize changes how many words are committed per transaction.
// Values below 1 restore the default.
func (r *Repository) SetBatchSize(size int) {
	if size < 1 {
		size = DefaultBatchSize
	}
	r.batchSize = size
}

func (r *Repository) BatchSize() int {
	return r.batchSize
}

// NewWord is a word that has not been saved yet.
type NewWord struct {
	Text  string
	Audio entities.Media
	Image entities.Media
}

// WordFailure records a word that could not be saved.
type WordFailure struct {
	Text string
	Err  error
}

// BatchResult reports the outcome of a best-effort batch save. Created holds
// the ids of saved words in input order.
type BatchResult struct {
	Created []uint
	Failed  []WordFailure
}

// Merge appends other to r.
func (r *BatchResult) Merge(other BatchResult) {
	r.Created = append(r.Created, other.Created...)
	r.Failed = append(r.Failed, other.Failed...)
}
