package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer saves tasks onto the background queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// CleanupScheduler periodically enqueues housekeeping tasks such as
// removing stale uploads and pruning the audit trail.
type CleanupScheduler struct {
	enqueuer Enqueuer
	schedule string
	tasks    []backlite.Task

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewCleanupScheduler creates a scheduler that enqueues the given tasks on
// every tick of the cron schedule.
func NewCleanupScheduler(enqueuer Enqueuer, schedule string, tasks ...backlite.Task) *CleanupScheduler {
	return &CleanupScheduler{
		enqueuer: enqueuer,
		schedule: schedule,
		tasks:    tasks,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// ValidateSchedule reports whether a five-field cron expression parses.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start begins the scheduler. Calling Start twice is a no-op.
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.enqueuer == nil {
		return fmt.Errorf("cleanup scheduler: task queue not configured")
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("[CLEANUP] Scheduler started with schedule '%s'. Next run: %v", s.schedule, s.nextRunLocked())

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("[CLEANUP] Scheduler stopped")
}

// RunNow enqueues every cleanup task immediately and returns how many were
// accepted by the queue.
func (s *CleanupScheduler) RunNow(ctx context.Context) int {
	enqueued := 0
	for _, task := range s.tasks {
		id, err := s.enqueuer.Enqueue(ctx, task)
		if err != nil {
			log.Printf("[CLEANUP] Failed to enqueue %s: %v", task.Config().Name, err)
			continue
		}
		log.Printf("[CLEANUP] Enqueued %s (%s)", task.Config().Name, id)
		enqueued++
	}
	return enqueued
}

// IsRunning returns whether the scheduler is active
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will occur
func (s *CleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.nextRunLocked()
	return &t
}

func (s *CleanupScheduler) nextRunLocked() time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			return entry.Next
		}
	}
	return time.Time{}
}
