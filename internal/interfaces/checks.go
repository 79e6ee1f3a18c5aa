package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/tomfrance/sacha/internal/audit"
	"github.com/tomfrance/sacha/internal/auth"
	"github.com/tomfrance/sacha/internal/database"
	"github.com/tomfrance/sacha/internal/database/imports"
	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/exporters"
	"github.com/tomfrance/sacha/internal/http"
	"github.com/tomfrance/sacha/internal/importers"
	"github.com/tomfrance/sacha/internal/scheduler"
	"github.com/tomfrance/sacha/internal/services"
	"github.com/tomfrance/sacha/internal/storage"
	"github.com/tomfrance/sacha/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Level store implementations
var _ services.LevelStore = (*levels.Repository)(nil)
var _ importers.Store = (*levels.Repository)(nil)
var _ exporters.InventoryStore = (*levels.Repository)(nil)
var _ http.StoreStats = (*levels.Repository)(nil)

// Import session store implementations
var _ services.SessionStore = (*imports.Repository)(nil)
var _ services.FinishedSessionStore = (*imports.Repository)(nil)

// Upload storage implementations
var _ services.ArchiveSpool = (*storage.Spool)(nil)
var _ http.UploadSpool = (*storage.Spool)(nil)
var _ http.SpoolLister = (*storage.Spool)(nil)

// Health checks
var _ http.DatabasePinger = (*database.Database)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.LevelLibrary = (*services.Library)(nil)
var _ http.ImportRunner = (*services.ImportService)(nil)
var _ http.InventoryWriter = (*exporters.InventoryExporter)(nil)
var _ services.ArchiveImporter = (*importers.Importer)(nil)

// Audit trail implementations
var _ http.Auditor = (*audit.Service)(nil)
var _ services.ImportAuditor = (*audit.Service)(nil)
var _ auth.LoginAuditor = (*audit.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.SessionRunner = (*services.ImportService)(nil)
var _ tasks.UploadCleaner = (*services.UploadCleaner)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
