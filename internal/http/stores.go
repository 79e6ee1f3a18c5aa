package http

import (
	"context"
	"io"

	"github.com/mikestefanello/backlite"

	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/exporters"
	"github.com/tomfrance/sacha/internal/importers"
	"github.com/tomfrance/sacha/internal/services"
	"github.com/tomfrance/sacha/internal/storage"
)

// LevelLibrary is the level and word management used by the controllers.
// Implemented by services.Library.
type LevelLibrary interface {
	CreateCategory(ctx context.Context, in services.CategoryInput) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id uint, in services.CategoryInput) (*entities.Category, error)
	GetCategories(ctx context.Context) ([]services.CategorySummary, error)
	GetCategory(ctx context.Context, id uint) (*services.CategorySummary, error)
	SetCompleted(ctx context.Context, id uint, completed bool) error
	DeleteCategory(ctx context.Context, id uint) error

	CreateWord(ctx context.Context, in services.WordInput) (*entities.Word, error)
	GetWords(ctx context.Context, categoryID *uint) ([]entities.Word, error)
	GetWord(ctx context.Context, id uint) (*entities.Word, error)
	DeleteWord(ctx context.Context, id uint) error
}

// ImportRunner registers and runs archive imports. Implemented by
// services.ImportService.
type ImportRunner interface {
	Prepare(ctx context.Context, source entities.ImportSource, archiveName, archivePath string) (*entities.ImportSession, error)
	AttachTask(ctx context.Context, sessionID uint, taskID string) error
	Get(ctx context.Context, id uint) (*entities.ImportSession, error)
	List(ctx context.Context, limit int) ([]entities.ImportSession, error)
	Run(ctx context.Context, sessionID uint, progress importers.ProgressFunc) (*entities.ImportSession, importers.Result, error)
}

// UploadSpool stores uploaded archives on disk. Implemented by storage.Spool.
type UploadSpool interface {
	Save(r io.Reader, maxBytes int64) (storage.FileInfo, error)
	Remove(path string) error
}

// TaskQueue enqueues and inspects background tasks. Implemented by tasks.Client.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// InventoryWriter renders the levels workbook. Implemented by
// exporters.InventoryExporter.
type InventoryWriter interface {
	Write(ctx context.Context, w io.Writer) (exporters.InventoryResult, error)
}

// Auditor records caregiver actions. Implemented by audit.Service.
type Auditor interface {
	LogDelete(entityType string, entityID uint, entityName string)
	LogExport(description string, err error)
	GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// StoreStats summarises the level store. Implemented by levels.Repository.
type StoreStats interface {
	Stats(ctx context.Context) (levels.Stats, error)
}

// SpoolLister lists archives waiting in the upload spool. Implemented by
// storage.Spool.
type SpoolLister interface {
	List() ([]storage.FileInfo, error)
}

// DatabasePinger reports database health. Implemented by database.Database.
type DatabasePinger interface {
	Ping() error
}
