package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tomfrance/sacha/internal/database/dberr"
	"github.com/tomfrance/sacha/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return dberr.Storage("log audit event", r.db.WithContext(ctx).Create(event).Error)
}

// GetEvents retrieves paginated audit events, most recent first. An empty
// eventType returns events of every type.
func (r *Repository) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dberr.Storage("count audit events", err)
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	if err != nil {
		return nil, 0, dberr.Storage("get audit events", err)
	}
	return events, total, nil
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, dberr.Storage("delete audit events", result.Error)
}

// GetEventByID retrieves a single audit event by ID.
func (r *Repository) GetEventByID(ctx context.Context, id uint) (*entities.AuditEvent, error) {
	var event entities.AuditEvent
	err := r.db.WithContext(ctx).First(&event, id).Error
	if err != nil {
		return nil, dberr.Storage("get audit event", err)
	}
	return &event, nil
}
