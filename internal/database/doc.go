// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── dberr/           # Storage and not-found error types shared by repositories
//	├── levels/          # Categories (levels) and words: the local store
//	├── imports/         # Bulk import session tracking
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./sacha.db")
//
//	// Create domain-specific repositories
//	store := levels.NewRepository(db.DB)
//	sessions := imports.NewRepository(db.DB)
//
//	// Use repositories
//	id, err := store.AddCategory(ctx, "Animals", picture)
//	words, err := store.GetWords(ctx, &id)
//
// # Payloads
//
// Pictures and sounds are stored inline as BLOB columns next to their MIME
// type (see entities.Media). There is no chunking; SQLite handles large values.
//
// # Referential integrity
//
// words.category_id is indexed but carries no foreign-key constraint. The
// levels repository deletes a category's words in the same transaction as the
// category itself; checking that a category exists before adding a word is
// the service layer's job.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Wrap driver failures with dberr.Storage and missing rows with dberr.ErrNotFound
//  5. Add compile-time interface check in internal/interfaces/checks.go
package database
