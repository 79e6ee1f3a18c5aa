package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/tomfrance/sacha/internal/entities"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_MigratesSchema(t *testing.T) {
	db := setupTestDB(t)

	migrator := db.DB.Migrator()
	assert.True(t, migrator.HasTable(&entities.Category{}))
	assert.True(t, migrator.HasTable(&entities.Word{}))
	assert.True(t, migrator.HasTable(&entities.ImportSession{}))
	assert.True(t, migrator.HasTable(&entities.AuditEvent{}))
	assert.True(t, migrator.HasIndex(&entities.Word{}, "CategoryID"))
	assert.True(t, migrator.HasColumn(&entities.Category{}, "picture_mime_type"))
	assert.True(t, migrator.HasColumn(&entities.Word{}, "audio_data"))
}

func TestNewDatabase_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")

	db, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)
	category := &entities.Category{
		Title:   "Animals",
		Picture: entities.Media{MIMEType: "image/png", Data: []byte{1, 2, 3}},
	}
	require.NoError(t, db.DB.Create(category).Error)
	require.NoError(t, db.Close())

	reopened, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)
	defer reopened.Close()

	var loaded entities.Category
	require.NoError(t, reopened.DB.First(&loaded, category.ID).Error)
	assert.Equal(t, "Animals", loaded.Title)
	assert.Equal(t, []byte{1, 2, 3}, loaded.Picture.Data)
	assert.False(t, loaded.IsCompleted)
}

func TestDatabase_Ping(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Ping())
	assert.Equal(t, "test.db", filepath.Base(db.Path()))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.db?"+sqliteParams, dsn("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&"+sqliteParams, dsn("file:a.db?mode=rwc"))
}
