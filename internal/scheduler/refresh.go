package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/shoplist/internal/mediator"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Refresher reloads every entity set.
type Refresher interface {
	LoadAll(ctx context.Context, loadType mediator.LoadType) (map[string]mediator.LoadResult, error)
}

// RefreshScheduler periodically refreshes all entity sets from the remote
// API and records the outcome in the settings table.
type RefreshScheduler struct {
	refresher Refresher
	status    StatusStore
	schedule  string
	timeout   time.Duration

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	isSyncing bool
}

// NewRefreshScheduler creates a scheduler running on schedule, a five-field
// cron expression.
func NewRefreshScheduler(refresher Refresher, status StatusStore, schedule string) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		status:    status,
		schedule:  schedule,
		timeout:   10 * time.Minute,
		cron:      cron.New(cron.WithParser(parser)),
	}
}

// ValidateSchedule reports whether schedule is a valid five-field cron
// expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start schedules the refresh job. The scheduler stops when ctx is done.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.RunNow)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	log.Printf("[SCHEDULER] Refresh started with schedule '%s'. Next run: %v", s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop stops the scheduler and waits for a running refresh to complete.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cron.Remove(s.entryID)
	done := s.cron.Stop()
	s.mu.Unlock()

	<-done.Done()
	log.Printf("[SCHEDULER] Refresh stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *RefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing reports whether a refresh is in progress.
func (s *RefreshScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// NextRunTime returns when the next refresh will occur, or nil when stopped.
func (s *RefreshScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow refreshes all entity sets synchronously. It is skipped when a
// refresh is already in progress.
func (s *RefreshScheduler) RunNow() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("[SCHEDULER] Refresh skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	results, err := s.refresher.LoadAll(ctx, mediator.Refresh)
	if err != nil {
		msg := fmt.Sprintf("Refresh failed: %v", err)
		log.Printf("[SCHEDULER] %s", msg)
		s.record(StatusFailed, msg)
		return
	}

	msg := fmt.Sprintf("Refreshed %s in %v", describe(results), time.Since(start).Round(time.Millisecond))
	log.Printf("[SCHEDULER] %s", msg)
	s.record(StatusSuccess, msg)
}

func (s *RefreshScheduler) record(status, message string) {
	if s.status == nil {
		return
	}
	if err := WriteStatus(s.status, status, message, time.Now()); err != nil {
		log.Printf("[SCHEDULER] Failed to record refresh status: %v", err)
	}
}

// describe lists entity names, marking the ones that came back empty.
func describe(results map[string]mediator.LoadResult) string {
	names := make([]string, 0, len(results))
	for name, result := range results {
		if result.EndOfPaginationReached {
			name += " (empty)"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
