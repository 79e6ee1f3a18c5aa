package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tomfrance/sacha/internal/database/audit"
	"github.com/tomfrance/sacha/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event queued with LogAsync has been written.
func (s *Service) Wait() {
	s.wg.Wait()
}

// ImportStats is what an import audit event remembers about the run.
type ImportStats struct {
	SessionID         uint `json:"session_id,omitempty"`
	LevelsTotal       int  `json:"levels_total"`
	CategoriesCreated int  `json:"categories_created"`
	WordsCreated      int  `json:"words_created"`
	Warnings          int  `json:"warnings"`
}

// LogImport records a bulk archive import.
func (s *Service) LogImport(source entities.ImportSource, archiveName string, stats ImportStats, err error) {
	description := fmt.Sprintf("Imported %d levels with %d words from %s",
		stats.CategoriesCreated, stats.WordsCreated, archiveName)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      string(source) + "_archive_import",
		Description: truncate(description, 500),
		EntityType:  "import_session",
		Status:      entities.AuditStatusSuccess,
	}
	if stats.SessionID > 0 {
		id := stats.SessionID
		event.EntityID = &id
	}
	if mdBytes, e := json.Marshal(stats); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogExport records an inventory export.
func (s *Service) LogExport(description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExport,
		Action:      "inventory_export",
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(entityType string, entityID uint, entityName string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: truncate("Deleted "+entityType+": "+entityName, 500),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogAuth records a caregiver authentication event.
func (s *Service) LogAuth(action string, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events. An empty eventType returns
// every type.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
