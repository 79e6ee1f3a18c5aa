package config

// Default paths and limits
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./sacha.db"

	// DefaultUploadDir is where uploaded level bundles are spooled before import
	DefaultUploadDir = "./uploads"

	// DefaultMaxUploadBytes caps a single uploaded bundle (200 MB)
	DefaultMaxUploadBytes int64 = 200 << 20

	// DefaultImportBatchSize is the number of words saved per transaction
	DefaultImportBatchSize = 5
)
