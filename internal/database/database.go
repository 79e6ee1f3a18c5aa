package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tomfrance/sacha/internal/entities"
)

// sqliteParams keeps writers from failing fast while the import worker holds
// the write lock.
const sqliteParams = "_busy_timeout=5000&_journal=WAL"

type Database struct {
	DB   *gorm.DB
	path string
}

// Option customises how the database is opened.
type Option func(*gorm.Config)

// WithLogLevel overrides the gorm logger verbosity.
func WithLogLevel(level logger.LogLevel) Option {
	return func(cfg *gorm.Config) {
		cfg.Logger = logger.Default.LogMode(level)
	}
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Schema version is fixed: tables are created on first start and only
	// grow new columns through AutoMigrate.
	err = db.AutoMigrate(
		&entities.Category{},
		&entities.Word{},
		&entities.ImportSession{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	// One connection: SQLite serialises writers anyway, and a single
	// connection keeps batch transactions from contending with themselves.
	sqlDB.SetMaxOpenConns(1)

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db, path: dbPath}, nil
}

// Path returns the file path the database was opened with.
func (d *Database) Path() string {
	return d.path
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is still usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func dsn(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath + "&" + sqliteParams
	}
	return dbPath + "?" + sqliteParams
}
