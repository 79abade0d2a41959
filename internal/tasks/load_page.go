package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/shoplist/internal/mediator"
)

// LoadPageQueue is the backlite queue name of page loads.
const LoadPageQueue = "load_page"

// LoadPageTask asks a worker to run one mediator load for an entity.
type LoadPageTask struct {
	Entity   string `json:"entity"`
	LoadType string `json:"load_type"`
}

// Config returns the queue configuration. Redelivery is the queue's own; the
// mediator still applies its retry policy inside each attempt.
func (t LoadPageTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        LoadPageQueue,
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Loaders resolves entity names to mediators.
type Loaders interface {
	Loader(name string) (mediator.Loader, bool)
}

// LoadPageProcessor runs queued page loads against loaders.
func LoadPageProcessor(loaders Loaders) backlite.QueueProcessor[LoadPageTask] {
	return func(ctx context.Context, task LoadPageTask) error {
		loader, ok := loaders.Loader(task.Entity)
		if !ok {
			return fmt.Errorf("unknown entity %q", task.Entity)
		}
		loadType, err := mediator.ParseLoadType(task.LoadType)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := loader.Load(ctx, loadType)
		if err != nil {
			return fmt.Errorf("load %s %s: %w", loadType, task.Entity, err)
		}
		log.Printf("[TASK] Loaded %s %s in %v (end of pagination: %t)",
			loadType, task.Entity, time.Since(start).Round(time.Millisecond), result.EndOfPaginationReached)
		return nil
	}
}

// NewLoadPageQueue creates the page-load queue.
func NewLoadPageQueue(loaders Loaders) backlite.Queue {
	return backlite.NewQueue(LoadPageProcessor(loaders))
}

// EnqueueLoad schedules one load and returns its task ID.
func (c *Client) EnqueueLoad(entity string, loadType mediator.LoadType) (string, error) {
	ids, err := c.Add(LoadPageTask{Entity: entity, LoadType: loadType.String()}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s %s: %w", loadType, entity, err)
	}
	return ids[0], nil
}
