package entities

import "time"

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

type ImportSource string

const (
	ImportSourceCLI  ImportSource = "cli"
	ImportSourceHTTP ImportSource = "http"
	ImportSourceTask ImportSource = "task"
)

// ImportWarning describes a non-fatal problem met during a bulk import:
// a directory without background, a word that could not be extracted or saved.
type ImportWarning struct {
	Directory string `json:"directory"`
	Word      string `json:"word,omitempty"`
	Reason    string `json:"reason"`
}

// ImportSession tracks one run of the archive importer.
type ImportSession struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Source            ImportSource    `gorm:"size:20" json:"source"`
	ArchiveName       string          `gorm:"size:512" json:"archive_name"`
	ArchivePath       string          `gorm:"size:1024" json:"-"`
	TaskID            string          `gorm:"size:64" json:"task_id,omitempty"`
	Status            ImportStatus    `gorm:"size:20;index;default:'pending'" json:"status"`
	LevelsTotal       int             `json:"levels_total"`
	LevelsProcessed   int             `json:"levels_processed"`
	CategoriesCreated int             `json:"categories_created"`
	WordsCreated      int             `json:"words_created"`
	Warnings          []ImportWarning `gorm:"serializer:json;type:text" json:"warnings,omitempty"`
	Error             string          `gorm:"size:1000" json:"error,omitempty"`
	StartedAt         *time.Time      `json:"started_at,omitempty"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (ImportSession) TableName() string {
	return "import_sessions"
}

// IsFinished reports whether the session reached a terminal status.
func (s ImportSession) IsFinished() bool {
	return s.Status == ImportStatusCompleted || s.Status == ImportStatusFailed
}
