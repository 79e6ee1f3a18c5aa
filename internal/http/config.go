package http

import (
	"time"

	"github.com/tomfrance/sacha/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database DatabasePinger
	Library  LevelLibrary
	Stats    StoreStats
	Auditor  Auditor

	// Bulk import
	Imports        ImportRunner
	Spool          UploadSpool
	MaxUploadBytes int64
	AsyncImports   bool

	// Upper bound for a single picture or audio file
	MaxMediaBytes int64

	// Inventory export (optional)
	Exporter InventoryWriter

	// Task queue (optional)
	TaskQueue          TaskQueue
	UploadRetention    time.Duration
	AuditRetentionDays int

	// Caregiver authentication (optional)
	SessionManager      *auth.SessionManager
	AuthMiddleware      *auth.Middleware
	CaregiverController *auth.CaregiverController
	CSRFSecret          []byte
	SecureCookies       bool
	TrustedOrigins      []string // Front-end origins allowed to send caregiver writes

	// Application info
	Version string
}
