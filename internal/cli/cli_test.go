package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/tomfrance/sacha/internal/archive"
	"github.com/tomfrance/sacha/internal/auth"
	"github.com/tomfrance/sacha/internal/database"
	"github.com/tomfrance/sacha/internal/database/imports"
	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/exporters"
)

var (
	pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	mp3Bytes = []byte("ID3\x03\x00\x00\x00\x00\x00\x00")
)

func writeBundle(t *testing.T) string {
	t.Helper()
	data, err := archive.Bytes([]archive.Entry{
		{Name: "animals/background.png", Data: pngBytes},
		{Name: "animals/cat.png", Data: pngBytes},
		{Name: "animals/cat.mp3", Data: mp3Bytes},
		{Name: "animals/dog.png", Data: pngBytes},
		{Name: "nobg/sun.png", Data: pngBytes},
		{Name: "nobg/sun.mp3", Data: mp3Bytes},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "levels.zip")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func openDB(t *testing.T, path string) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(path, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestImportZipCommand_ParseFlags(t *testing.T) {
	t.Run("requires -file", func(t *testing.T) {
		err := NewImportZipCommand().ParseFlags([]string{})
		assert.ErrorContains(t, err, "-file")
	})

	t.Run("rejects a zero batch", func(t *testing.T) {
		err := NewImportZipCommand().ParseFlags([]string{"-file", "x.zip", "-batch", "0"})
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		cmd := NewImportZipCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", "x.zip"}))
		assert.Equal(t, 5, cmd.BatchSize)
		assert.False(t, cmd.DryRun)
		assert.True(t, cmd.SniffContent)
	})
}

func TestImportZipCommand_DryRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sacha.db")
	var out bytes.Buffer
	cmd := NewImportZipCommand()
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-file", writeBundle(t), "-db", dbPath, "-dry-run", "-verbose"}))

	require.NoError(t, cmd.Run())

	output := out.String()
	assert.Contains(t, output, "animals: 1 words")
	assert.Contains(t, output, "- cat")
	assert.Contains(t, output, "dog: missing audio")
	assert.Contains(t, output, "nobg: skipped")
	assert.Contains(t, output, "1 of 2 levels would be imported with 1 words")

	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "dry run must not create the database")
}

func TestImportZipCommand_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sacha.db")
	var out bytes.Buffer
	cmd := NewImportZipCommand()
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-file", writeBundle(t), "-db", dbPath}))

	require.NoError(t, cmd.Run())

	output := out.String()
	assert.Contains(t, output, "Levels created: 1/2")
	assert.Contains(t, output, "Words created: 1")
	assert.Contains(t, output, "[WARN] nobg")

	db := openDB(t, dbPath)
	ctx := context.Background()
	categories, err := levels.NewRepository(db.DB).GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "animals", categories[0].Title)

	sessions, err := imports.NewRepository(db.DB).List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, entities.ImportSourceCLI, sessions[0].Source)
	assert.Equal(t, entities.ImportStatusCompleted, sessions[0].Status)
	assert.Equal(t, "levels.zip", sessions[0].ArchiveName)
}

func TestImportZipCommand_MissingArchive(t *testing.T) {
	cmd := NewImportZipCommand()
	cmd.out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"-file", filepath.Join(t.TempDir(), "nope.zip")}))

	assert.ErrorContains(t, cmd.Run(), "archive not found")
}

func TestExportXLSXCommand_Run(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sacha.db")
	db := openDB(t, dbPath)
	_, err := levels.NewRepository(db.DB).AddCategory(context.Background(), "Animals", entities.Media{MIMEType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	outPath := filepath.Join(dir, "inventory.xlsx")
	var out bytes.Buffer
	cmd := NewExportXLSXCommand()
	cmd.out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath, "-out", outPath}))

	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Exported 1 levels and 0 words")

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exporters.LevelsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Animals", rows[1][1])
}

func TestExportXLSXCommand_MissingDatabase(t *testing.T) {
	cmd := NewExportXLSXCommand()
	cmd.out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"-db", filepath.Join(t.TempDir(), "missing.db")}))

	assert.ErrorContains(t, cmd.Run(), "database not found")
}

func TestHashPINCommand(t *testing.T) {
	t.Run("hashes the flag value", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewHashPINCommand()
		cmd.out = &out
		require.NoError(t, cmd.ParseFlags([]string{"-pin", "2468", "-cost", "4"}))

		require.NoError(t, cmd.Run())

		hash := strings.TrimSpace(out.String())
		assert.NoError(t, auth.CheckPIN("2468", hash))
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, 4, cost)
	})

	t.Run("reads the PIN from stdin", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewHashPINCommand()
		cmd.in = strings.NewReader("1357\n")
		cmd.out = &out
		require.NoError(t, cmd.ParseFlags([]string{"-cost", "4"}))

		require.NoError(t, cmd.Run())
		assert.NoError(t, auth.CheckPIN("1357", strings.TrimSpace(out.String())))
	})

	t.Run("rejects invalid PINs", func(t *testing.T) {
		cmd := NewHashPINCommand()
		cmd.out = &bytes.Buffer{}
		require.NoError(t, cmd.ParseFlags([]string{"-pin", "12", "-cost", "4"}))

		assert.ErrorIs(t, cmd.Run(), auth.ErrPINTooShort)
	})
}
