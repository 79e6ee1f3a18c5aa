package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/importers"
)

func TestDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "sacha-tasks.db"), DBPath(filepath.Join("data", "sacha.db")))
	assert.Equal(t, "levels-tasks", DBPath("levels"))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestStopWithoutStart(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.Stop(context.Background()))
}

type stubRunner struct {
	calls chan uint
	err   error
}

func (s *stubRunner) Run(ctx context.Context, sessionID uint, progress importers.ProgressFunc) (*entities.ImportSession, importers.Result, error) {
	s.calls <- sessionID
	if s.err != nil {
		return nil, importers.Result{}, s.err
	}
	session := &entities.ImportSession{ArchiveName: "levels.zip"}
	session.ID = sessionID
	return session, importers.Result{LevelsTotal: 1, LevelsProcessed: 1, CategoriesCreated: 1}, nil
}

func TestEnqueueImportArchive(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	runner := &stubRunner{calls: make(chan uint, 1)}
	client.Register(NewImportArchiveQueue(runner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	id, err := client.Enqueue(ctx, ImportArchiveTask{SessionID: 7})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case got := <-runner.calls:
		assert.Equal(t, uint(7), got)
	case <-time.After(5 * time.Second):
		t.Fatal("import task was not executed within timeout")
	}
}

func TestImportArchiveProcessor(t *testing.T) {
	t.Run("runs session", func(t *testing.T) {
		runner := &stubRunner{calls: make(chan uint, 1)}
		err := ImportArchiveProcessor(runner)(context.Background(), ImportArchiveTask{SessionID: 3})
		require.NoError(t, err)
		assert.Equal(t, uint(3), <-runner.calls)
	})

	t.Run("wraps runner error", func(t *testing.T) {
		boom := errors.New("archive unreadable")
		runner := &stubRunner{calls: make(chan uint, 1), err: boom}
		err := ImportArchiveProcessor(runner)(context.Background(), ImportArchiveTask{SessionID: 3})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "import session 3")
	})

	t.Run("requires session id", func(t *testing.T) {
		runner := &stubRunner{calls: make(chan uint, 1)}
		err := ImportArchiveProcessor(runner)(context.Background(), ImportArchiveTask{})
		assert.Error(t, err)
		assert.Empty(t, runner.calls)
	})

	t.Run("nil runner", func(t *testing.T) {
		err := ImportArchiveProcessor(nil)(context.Background(), ImportArchiveTask{SessionID: 1})
		assert.Error(t, err)
	})
}

type stubUploadCleaner struct {
	retention time.Duration
	removed   int
	err       error
}

func (s *stubUploadCleaner) RemoveStaleUploads(ctx context.Context, retention time.Duration) (int, error) {
	s.retention = retention
	return s.removed, s.err
}

func TestCleanupUploadsProcessor(t *testing.T) {
	cleaner := &stubUploadCleaner{removed: 2}

	require.NoError(t, CleanupUploadsProcessor(cleaner)(context.Background(), CleanupUploadsTask{RetentionHours: 6}))
	assert.Equal(t, 6*time.Hour, cleaner.retention)

	require.NoError(t, CleanupUploadsProcessor(cleaner)(context.Background(), CleanupUploadsTask{}))
	assert.Equal(t, 24*time.Hour, cleaner.retention, "zero retention falls back to a day")

	cleaner.err = errors.New("disk gone")
	assert.Error(t, CleanupUploadsProcessor(cleaner)(context.Background(), CleanupUploadsTask{}))
	assert.Error(t, CleanupUploadsProcessor(nil)(context.Background(), CleanupUploadsTask{}))
}

type stubAuditCleaner struct {
	retention time.Duration
	err       error
}

func (s *stubAuditCleaner) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	s.retention = retention
	return 4, s.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &stubAuditCleaner{}

	require.NoError(t, CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{RetentionDays: 10}))
	assert.Equal(t, 10*24*time.Hour, cleaner.retention)

	require.NoError(t, CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{}))
	assert.Equal(t, 90*24*time.Hour, cleaner.retention, "zero retention falls back to 90 days")

	cleaner.err = errors.New("database locked")
	assert.Error(t, CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{}))
	assert.Error(t, CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{}))
}

func TestTaskConfigs(t *testing.T) {
	importCfg := ImportArchiveTask{}.Config()
	assert.Equal(t, "import_archive", importCfg.Name)
	assert.Equal(t, 1, importCfg.MaxAttempts, "imports must never be retried")
	assert.NotNil(t, importCfg.Retention)

	uploadsCfg := CleanupUploadsTask{}.Config()
	assert.Equal(t, "cleanup_uploads", uploadsCfg.Name)
	assert.Equal(t, 3, uploadsCfg.MaxAttempts, "cleanups are idempotent and may retry")

	auditCfg := CleanupAuditEventsTask{}.Config()
	assert.Equal(t, "cleanup_audit_events", auditCfg.Name)
	assert.Equal(t, 3, auditCfg.MaxAttempts)
	assert.Equal(t, uploadsCfg.Retention, auditCfg.Retention)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusString(backlite.TaskStatusPending))
	assert.Equal(t, "running", StatusString(backlite.TaskStatusRunning))
	assert.Equal(t, "success", StatusString(backlite.TaskStatusSuccess))
	assert.Equal(t, "failure", StatusString(backlite.TaskStatusFailure))
	assert.Equal(t, "not_found", StatusString(backlite.TaskStatusNotFound))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 45*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
