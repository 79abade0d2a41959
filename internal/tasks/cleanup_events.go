package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultEventRetentionDays applies when a cleanup task carries no retention.
const DefaultEventRetentionDays = 30

// SyncEventCleaner deletes old sync events.
type SyncEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupSyncEventsTask removes sync events older than the retention period.
type CleanupSyncEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupSyncEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_sync_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupSyncEventsProcessor deletes expired events through cleaner.
func CleanupSyncEventsProcessor(cleaner SyncEventCleaner) backlite.QueueProcessor[CleanupSyncEventsTask] {
	return func(ctx context.Context, task CleanupSyncEventsTask) error {
		days := task.RetentionDays
		if days <= 0 {
			days = DefaultEventRetentionDays
		}

		deleted, err := cleaner.DeleteOldEvents(time.Duration(days) * 24 * time.Hour)
		if err != nil {
			return fmt.Errorf("cleanup sync events: %w", err)
		}
		log.Printf("[TASK] Cleaned up %d sync events older than %d days", deleted, days)
		return nil
	}
}

func NewCleanupSyncEventsQueue(cleaner SyncEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupSyncEventsProcessor(cleaner))
}
