// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - services.LevelStore: categories and words (internal/services/library.go)
//   - importers.Store: the subset of the level store used by bulk imports (internal/importers/pipeline.go)
//   - services.SessionStore: import session rows (internal/services/import_service.go)
//   - exporters.InventoryStore: read access for the xlsx inventory (internal/exporters/inventory.go)
//
// ## HTTP Boundary Interfaces
//
//   - http.LevelLibrary, http.ImportRunner, http.TaskQueue, http.Auditor (internal/http/stores.go)
//
// ## Background Work Interfaces
//
//   - tasks.SessionRunner: runs an import session in a worker (internal/tasks/import_archive.go)
//   - tasks.UploadCleaner, tasks.AuditEventCleaner: periodic cleanup targets
//   - scheduler.Enqueuer: where cron ticks send their tasks (internal/scheduler/cleanup.go)
//
// # Adding a New Background Task
//
//  1. Define the task and its queue in internal/tasks/:
//
//     type RebuildThumbnailsTask struct {
//         CategoryID uint `json:"category_id"`
//     }
//
//     func (t RebuildThumbnailsTask) Config() backlite.QueueConfig {
//         return backlite.QueueConfig{Name: "rebuild_thumbnails", MaxAttempts: 1}
//     }
//
//     func NewRebuildThumbnailsQueue(store ThumbnailStore) backlite.Queue {
//         return backlite.NewQueue[RebuildThumbnailsTask](RebuildThumbnailsProcessor(store))
//     }
//
//  2. Register the queue in entrypoint.go next to the import and cleanup queues.
//
//  3. Add it to TasksController.RunTask if caregivers may trigger it by hand.
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the entity to AutoMigrate in internal/database/database.go
//
//  4. Add compile-time check in checks.go:
//
//     var _ services.SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
