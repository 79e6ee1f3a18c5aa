// Package imports stores the bookkeeping of bulk archive imports.
//
// Each run of the importer owns one ImportSession row. The row is created as
// pending, moves to running when the archive is opened, receives progress
// counters while levels are processed and ends as completed or failed.
package imports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tomfrance/sacha/internal/database/dberr"
	"github.com/tomfrance/sacha/internal/entities"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Progress is a snapshot of counters written while an import runs.
type Progress struct {
	LevelsTotal       int
	LevelsProcessed   int
	CategoriesCreated int
	WordsCreated      int
	Warnings          []entities.ImportWarning
}

// Create stores a new pending session.
func (r *Repository) Create(ctx context.Context, session *entities.ImportSession) error {
	if session.Status == "" {
		session.Status = entities.ImportStatusPending
	}
	return dberr.Storage("create import session", r.db.WithContext(ctx).Create(session).Error)
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.ImportSession, error) {
	var session entities.ImportSession
	err := r.db.WithContext(ctx).First(&session, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, dberr.NotFound("import session", id)
	}
	if err != nil {
		return nil, dberr.Storage("get import session", err)
	}
	return &session, nil
}

// List returns the most recent sessions first.
func (r *Repository) List(ctx context.Context, limit int) ([]entities.ImportSession, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var sessions []entities.ImportSession
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, dberr.Storage("list import sessions", err)
	}
	return sessions, nil
}

// SetTaskID links the session to the background task that will run it. The
// session source becomes ImportSourceTask.
func (r *Repository) SetTaskID(ctx context.Context, id uint, taskID string) error {
	return r.update(ctx, "set import task id", id, map[string]interface{}{
		"task_id": taskID,
		"source":  entities.ImportSourceTask,
	})
}

// MarkRunning moves the session to running and stamps its start time.
func (r *Repository) MarkRunning(ctx context.Context, id uint) error {
	return r.update(ctx, "start import session", id, map[string]interface{}{
		"status":     entities.ImportStatusRunning,
		"started_at": time.Now(),
	})
}

// RecordProgress overwrites the counters and warnings of a running session.
func (r *Repository) RecordProgress(ctx context.Context, id uint, progress Progress) error {
	result := r.db.WithContext(ctx).
		Model(&entities.ImportSession{ID: id}).
		Select("levels_total", "levels_processed", "categories_created", "words_created", "warnings").
		Updates(entities.ImportSession{
			LevelsTotal:       progress.LevelsTotal,
			LevelsProcessed:   progress.LevelsProcessed,
			CategoriesCreated: progress.CategoriesCreated,
			WordsCreated:      progress.WordsCreated,
			Warnings:          progress.Warnings,
		})
	if result.Error != nil {
		return dberr.Storage("record import progress", result.Error)
	}
	if result.RowsAffected == 0 {
		return dberr.NotFound("import session", id)
	}
	return nil
}

// Complete stores the final counters and marks the session completed.
func (r *Repository) Complete(ctx context.Context, id uint, progress Progress) error {
	if err := r.RecordProgress(ctx, id, progress); err != nil {
		return err
	}
	return r.update(ctx, "complete import session", id, map[string]interface{}{
		"status":       entities.ImportStatusCompleted,
		"completed_at": time.Now(),
	})
}

// Fail marks the session failed with the given cause.
func (r *Repository) Fail(ctx context.Context, id uint, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
		if len(msg) > 1000 {
			msg = msg[:997] + "..."
		}
	}
	return r.update(ctx, "fail import session", id, map[string]interface{}{
		"status":       entities.ImportStatusFailed,
		"error":        msg,
		"completed_at": time.Now(),
	})
}

// ListFinishedBefore returns finished sessions that completed before cutoff.
func (r *Repository) ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]entities.ImportSession, error) {
	var sessions []entities.ImportSession
	err := r.db.WithContext(ctx).
		Where("status IN ?", []entities.ImportStatus{entities.ImportStatusCompleted, entities.ImportStatusFailed}).
		Where("completed_at < ?", cutoff).
		Find(&sessions).Error
	if err != nil {
		return nil, dberr.Storage("list finished import sessions", err)
	}
	return sessions, nil
}

// ClearArchivePath forgets where the uploaded archive was stored, once the
// file has been removed.
func (r *Repository) ClearArchivePath(ctx context.Context, id uint) error {
	return r.update(ctx, "clear import archive path", id, map[string]interface{}{
		"archive_path": "",
	})
}

func (r *Repository) update(ctx context.Context, op string, id uint, values map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&entities.ImportSession{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return dberr.Storage(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return dberr.NotFound("import session", id)
	}
	return nil
}
