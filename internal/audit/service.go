// Package audit journals page loads so sync failures can be inspected after
// the fact.
package audit

import (
	"context"
	"errors"
	"log"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/mediator"
	"github.com/mrlokans/shoplist/internal/remote"
)

// EventLogger persists sync events.
type EventLogger interface {
	LogEvent(event *entities.SyncEvent) error
}

// Service records mediator loads as sync events.
type Service struct {
	repo EventLogger
	wg   sync.WaitGroup
}

func NewService(repo EventLogger) *Service {
	return &Service{repo: repo}
}

// RecordLoad converts a finished load into a sync event and stores it in the
// background. It is suitable as a mediator OnLoad hook.
func (s *Service) RecordLoad(e mediator.LoadEvent) {
	event := NewSyncEvent(e)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("[SYNC] Failed to log sync event: %v", err)
		}
	}()
}

// Wait blocks until all pending events are stored.
func (s *Service) Wait() {
	s.wg.Wait()
}

// NewSyncEvent builds the event of a finished load.
func NewSyncEvent(e mediator.LoadEvent) *entities.SyncEvent {
	event := &entities.SyncEvent{
		ID:              uuid.NewString(),
		Endpoint:        e.Endpoint,
		LoadType:        e.LoadType.String(),
		Status:          entities.SyncEventSuccess,
		EndOfPagination: e.Result.EndOfPaginationReached,
		DurationMs:      e.Duration.Milliseconds(),
	}

	switch {
	case e.Err == nil:
	case errors.Is(e.Err, context.Canceled):
		event.Status = entities.SyncEventCancelled
	default:
		event.Status = entities.SyncEventFailed
		event.ErrorMsg = truncate(e.Err.Error(), 500)
		var apiErr *remote.APIError
		if errors.As(e.Err, &apiErr) {
			event.StatusCode = apiErr.StatusCode
		}
	}
	return event
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
