package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// Retention used when a cleanup task carries none.
const (
	defaultUploadRetention = 24 * time.Hour
	defaultAuditRetention  = 90 * 24 * time.Hour
)

// UploadCleaner removes uploaded archives that are no longer needed.
type UploadCleaner interface {
	RemoveStaleUploads(ctx context.Context, retention time.Duration) (int, error)
}

// AuditEventCleaner deletes audit events older than a retention period.
type AuditEventCleaner interface {
	DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

// CleanupUploadsTask removes uploaded archives older than the retention.
type CleanupUploadsTask struct {
	RetentionHours int `json:"retention_hours"`
}

func (t CleanupUploadsTask) Config() backlite.QueueConfig {
	return cleanupQueueConfig("cleanup_uploads", 5*time.Minute)
}

func (t CleanupUploadsTask) retention() time.Duration {
	if t.RetentionHours <= 0 {
		return defaultUploadRetention
	}
	return time.Duration(t.RetentionHours) * time.Hour
}

// CleanupAuditEventsTask removes audit events older than the retention.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return cleanupQueueConfig("cleanup_audit_events", 2*time.Minute)
}

func (t CleanupAuditEventsTask) retention() time.Duration {
	if t.RetentionDays <= 0 {
		return defaultAuditRetention
	}
	return time.Duration(t.RetentionDays) * 24 * time.Hour
}

// cleanupQueueConfig is shared by the cleanup queues. Cleanups are
// idempotent, so a failed run is retried a few times; only failed runs keep
// their payload.
func cleanupQueueConfig(name string, timeout time.Duration) backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        name,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     timeout,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupUploadsProcessor creates a processor function for CleanupUploadsTask.
func CleanupUploadsProcessor(cleaner UploadCleaner) backlite.QueueProcessor[CleanupUploadsTask] {
	return func(ctx context.Context, task CleanupUploadsTask) error {
		if cleaner == nil {
			return fmt.Errorf("upload cleaner not configured")
		}
		retention := task.retention()
		removed, err := cleaner.RemoveStaleUploads(ctx, retention)
		if err != nil {
			return fmt.Errorf("cleanup uploads: %w", err)
		}
		log.Printf("[TASK] Removed %d uploaded archives older than %s", removed, retention)
		return nil
	}
}

// CleanupAuditEventsProcessor creates a processor function for CleanupAuditEventsTask.
func CleanupAuditEventsProcessor(cleaner AuditEventCleaner) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return fmt.Errorf("audit event cleaner not configured")
		}
		retention := task.retention()
		deleted, err := cleaner.DeleteOldEvents(ctx, retention)
		if err != nil {
			return fmt.Errorf("cleanup audit events: %w", err)
		}
		log.Printf("[TASK] Deleted %d audit events older than %s", deleted, retention)
		return nil
	}
}

func NewCleanupUploadsQueue(cleaner UploadCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupUploadsProcessor(cleaner))
}

func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner))
}
