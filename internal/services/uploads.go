package services

import (
	"context"
	"log"
	"time"

	"github.com/tomfrance/sacha/internal/entities"
)

// FinishedSessionStore finds imports whose uploads may be discarded.
// Implemented by imports.Repository.
type FinishedSessionStore interface {
	ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]entities.ImportSession, error)
	ClearArchivePath(ctx context.Context, id uint) error
}

// ArchiveSpool removes uploaded files. Implemented by storage.Spool.
type ArchiveSpool interface {
	Remove(path string) error
	RemoveOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// UploadCleaner discards uploaded archives once they are no longer needed.
type UploadCleaner struct {
	sessions FinishedSessionStore
	spool    ArchiveSpool
}

func NewUploadCleaner(sessions FinishedSessionStore, spool ArchiveSpool) *UploadCleaner {
	return &UploadCleaner{sessions: sessions, spool: spool}
}

// RemoveStaleUploads deletes the archives of imports that finished more than
// retention ago, then any leftover file older than retention. It returns the
// number of files removed.
func (c *UploadCleaner) RemoveStaleUploads(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention)

	sessions, err := c.sessions.ListFinishedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, session := range sessions {
		if session.ArchivePath == "" {
			continue
		}
		if err := c.spool.Remove(session.ArchivePath); err != nil {
			log.Printf("[CLEANUP] Failed to remove archive of import %d: %v", session.ID, err)
			continue
		}
		if err := c.sessions.ClearArchivePath(ctx, session.ID); err != nil {
			return removed, err
		}
		removed++
	}

	orphans, err := c.spool.RemoveOlderThan(ctx, cutoff)
	return removed + orphans, err
}
