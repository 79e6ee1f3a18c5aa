package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/importers"
)

// SessionRunner runs the import registered under a session.
type SessionRunner interface {
	Run(ctx context.Context, sessionID uint, progress importers.ProgressFunc) (*entities.ImportSession, importers.Result, error)
}

// ImportArchiveTask imports an uploaded level bundle in the background.
type ImportArchiveTask struct {
	SessionID uint `json:"session_id"`
}

// Config returns the queue configuration for archive imports. Imports are
// never retried: a second run would duplicate the levels already created.
func (t ImportArchiveTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_archive",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportArchiveProcessor creates a processor function for ImportArchiveTask.
func ImportArchiveProcessor(runner SessionRunner) backlite.QueueProcessor[ImportArchiveTask] {
	return func(ctx context.Context, task ImportArchiveTask) error {
		if runner == nil {
			return fmt.Errorf("import runner not configured")
		}
		if task.SessionID == 0 {
			return fmt.Errorf("import_archive: session_id is required")
		}

		session, result, err := runner.Run(ctx, task.SessionID, nil)
		if err != nil {
			return fmt.Errorf("import session %d: %w", task.SessionID, err)
		}

		log.Printf("[TASK] Import session %d (%s): %s", session.ID, session.ArchiveName, result.Summary())
		return nil
	}
}

// NewImportArchiveQueue creates a backlite queue for archive imports.
func NewImportArchiveQueue(runner SessionRunner) backlite.Queue {
	return backlite.NewQueue(ImportArchiveProcessor(runner))
}
