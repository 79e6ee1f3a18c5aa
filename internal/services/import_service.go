package services

import (
	"context"
	"fmt"
	"log"

	"github.com/tomfrance/sacha/internal/audit"
	"github.com/tomfrance/sacha/internal/database/imports"
	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/importers"
)

// SessionStore tracks import sessions. Implemented by imports.Repository.
type SessionStore interface {
	Create(ctx context.Context, session *entities.ImportSession) error
	GetByID(ctx context.Context, id uint) (*entities.ImportSession, error)
	List(ctx context.Context, limit int) ([]entities.ImportSession, error)
	SetTaskID(ctx context.Context, id uint, taskID string) error
	MarkRunning(ctx context.Context, id uint) error
	RecordProgress(ctx context.Context, id uint, progress imports.Progress) error
	Complete(ctx context.Context, id uint, progress imports.Progress) error
	Fail(ctx context.Context, id uint, cause error) error
}

// ArchiveImporter runs a bundle import. Implemented by importers.Importer.
type ArchiveImporter interface {
	ImportFile(ctx context.Context, zipPath string, progress importers.ProgressFunc) (importers.Result, error)
}

// ImportAuditor records finished imports. Implemented by audit.Service.
type ImportAuditor interface {
	LogImport(source entities.ImportSource, archiveName string, stats audit.ImportStats, err error)
}

// ImportService runs archive imports and keeps their session rows current.
type ImportService struct {
	sessions SessionStore
	importer ArchiveImporter
	auditor  ImportAuditor
}

// NewImportService creates an ImportService. auditor may be nil.
func NewImportService(sessions SessionStore, importer ArchiveImporter, auditor ImportAuditor) *ImportService {
	return &ImportService{sessions: sessions, importer: importer, auditor: auditor}
}

// Prepare registers a pending session for the archive stored at archivePath.
func (s *ImportService) Prepare(ctx context.Context, source entities.ImportSource, archiveName, archivePath string) (*entities.ImportSession, error) {
	session := &entities.ImportSession{
		Source:      source,
		ArchiveName: archiveName,
		ArchivePath: archivePath,
		Status:      entities.ImportStatusPending,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create import session: %w", err)
	}
	return session, nil
}

// AttachTask links a pending session to the background task that runs it.
func (s *ImportService) AttachTask(ctx context.Context, sessionID uint, taskID string) error {
	return s.sessions.SetTaskID(ctx, sessionID, taskID)
}

func (s *ImportService) Get(ctx context.Context, id uint) (*entities.ImportSession, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *ImportService) List(ctx context.Context, limit int) ([]entities.ImportSession, error) {
	return s.sessions.List(ctx, limit)
}

// Run imports the archive of a pending session. progress, when not nil,
// sees every importer event after the session row has been updated.
//
// A failure to open the archive or a cancelled context marks the session
// failed and is returned; partial failures only show up as warnings.
func (s *ImportService) Run(ctx context.Context, sessionID uint, progress importers.ProgressFunc) (*entities.ImportSession, importers.Result, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, importers.Result{}, err
	}
	if session.IsFinished() {
		return session, importers.Result{}, fmt.Errorf("import session %d already %s", session.ID, session.Status)
	}

	if err := s.sessions.MarkRunning(ctx, session.ID); err != nil {
		return nil, importers.Result{}, err
	}
	log.Printf("[IMPORT] Session %d: importing %s", session.ID, session.ArchiveName)

	tracker := &progressTracker{}
	result, importErr := s.importer.ImportFile(ctx, session.ArchivePath, func(ev importers.Event) {
		if tracker.apply(ev) {
			// Progress rows are best effort; the final state is written below.
			if err := s.sessions.RecordProgress(context.WithoutCancel(ctx), session.ID, tracker.progress); err != nil {
				log.Printf("[IMPORT] Session %d: failed to record progress: %v", session.ID, err)
			}
		}
		if progress != nil {
			progress(ev)
		}
	})

	// The session outcome is written even when ctx was cancelled.
	finishCtx := context.WithoutCancel(ctx)
	if importErr != nil {
		if err := s.sessions.RecordProgress(finishCtx, session.ID, toProgress(result)); err != nil {
			log.Printf("[IMPORT] Session %d: failed to record progress: %v", session.ID, err)
		}
		if err := s.sessions.Fail(finishCtx, session.ID, importErr); err != nil {
			log.Printf("[IMPORT] Session %d: failed to mark failed: %v", session.ID, err)
		}
		log.Printf("[IMPORT] Session %d failed: %v", session.ID, importErr)
	} else if err := s.sessions.Complete(finishCtx, session.ID, toProgress(result)); err != nil {
		return nil, result, err
	}

	s.audit(session, result, importErr)

	updated, err := s.sessions.GetByID(finishCtx, session.ID)
	if err != nil {
		return nil, result, err
	}
	return updated, result, importErr
}

func (s *ImportService) audit(session *entities.ImportSession, result importers.Result, err error) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogImport(session.Source, session.ArchiveName, audit.ImportStats{
		SessionID:         session.ID,
		LevelsTotal:       result.LevelsTotal,
		CategoriesCreated: result.CategoriesCreated,
		WordsCreated:      result.WordsCreated,
		Warnings:          len(result.Warnings),
	}, err)
}

func toProgress(r importers.Result) imports.Progress {
	return imports.Progress{
		LevelsTotal:       r.LevelsTotal,
		LevelsProcessed:   r.LevelsProcessed,
		CategoriesCreated: r.CategoriesCreated,
		WordsCreated:      r.WordsCreated,
		Warnings:          r.Warnings,
	}
}

// progressTracker folds importer events into session counters.
type progressTracker struct {
	progress imports.Progress
}

// apply updates the counters and reports whether a level just finished.
func (t *progressTracker) apply(ev importers.Event) bool {
	t.progress.LevelsTotal = ev.Total
	switch ev.Type {
	case importers.EventWordFailed:
		t.progress.Warnings = append(t.progress.Warnings, *ev.Warning)
	case importers.EventLevelSkipped:
		t.progress.Warnings = append(t.progress.Warnings, *ev.Warning)
		t.progress.LevelsProcessed = ev.Index
		return true
	case importers.EventLevelCompleted:
		t.progress.LevelsProcessed = ev.Index
		t.progress.CategoriesCreated++
		t.progress.WordsCreated += ev.WordsCreated
		return true
	}
	return false
}
