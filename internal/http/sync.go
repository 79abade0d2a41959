package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/mediator"
	"github.com/mrlokans/shoplist/internal/scheduler"
)

// SyncStore exposes the mediators and their cursors.
type SyncStore interface {
	Loader(name string) (mediator.Loader, bool)
	Cursors() ([]entities.RemoteKey, error)
}

// LoadQueue schedules page loads in the background.
type LoadQueue interface {
	EnqueueLoad(entity string, loadType mediator.LoadType) (string, error)
}

// RefreshStatus reports on the periodic refresh.
type RefreshStatus interface {
	IsRunning() bool
	IsSyncing() bool
	NextRunTime() *time.Time
}

// SyncController triggers page loads and reports sync state.
type SyncController struct {
	store     SyncStore
	queue     LoadQueue
	refresh   RefreshStatus
	settings  scheduler.StatusStore
	loadLimit time.Duration
}

// NewSyncController creates the controller. queue, refresh and settings may
// be nil: loads then run inline and status omits the scheduler.
func NewSyncController(store SyncStore, queue LoadQueue, refresh RefreshStatus, settings scheduler.StatusStore) *SyncController {
	return &SyncController{
		store:     store,
		queue:     queue,
		refresh:   refresh,
		settings:  settings,
		loadLimit: 2 * time.Minute,
	}
}

// CursorResponse is one persisted pagination cursor.
type CursorResponse struct {
	Endpoint   string    `json:"endpoint"`
	NextPage   *int      `json:"next_page"`
	PrevPage   *int      `json:"prev_page"`
	TotalItems int       `json:"total_items"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Load handles POST /api/sync/:entity?type=refresh|prepend|append.
// With a queue the load is enqueued and 202 returned with the task ID;
// otherwise it runs within the request.
func (sc *SyncController) Load(c *gin.Context) {
	entity := c.Param("entity")
	loader, ok := sc.store.Loader(entity)
	if !ok {
		respondNotFound(c, "entity "+entity)
		return
	}

	loadType := mediator.Refresh
	if v := c.Query("type"); v != "" {
		parsed, err := mediator.ParseLoadType(v)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		loadType = parsed
	}

	if sc.queue != nil {
		taskID, err := sc.queue.EnqueueLoad(entity, loadType)
		if err != nil {
			respondInternalError(c, err, "enqueue load")
			return
		}
		respondAccepted(c, "load queued", gin.H{"task_id": taskID, "entity": entity, "type": loadType.String()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), sc.loadLimit)
	defer cancel()

	result, err := loader.Load(ctx, loadType)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.Status(499)
			return
		}
		respondRemoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entity":            entity,
		"type":              loadType.String(),
		"end_of_pagination": result.EndOfPaginationReached,
	})
}

// Cursors handles GET /api/cursors.
func (sc *SyncController) Cursors(c *gin.Context) {
	keys, err := sc.store.Cursors()
	if err != nil {
		respondInternalError(c, err, "list cursors")
		return
	}

	out := make([]CursorResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, CursorResponse{
			Endpoint:   k.Endpoint,
			NextPage:   k.NextPage,
			PrevPage:   k.PrevPage,
			TotalItems: k.TotalItems,
			UpdatedAt:  k.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Status handles GET /api/sync/status.
func (sc *SyncController) Status(c *gin.Context) {
	resp := gin.H{"queue_enabled": sc.queue != nil}

	if sc.refresh != nil {
		resp["scheduler_running"] = sc.refresh.IsRunning()
		resp["syncing"] = sc.refresh.IsSyncing()
		if next := sc.refresh.NextRunTime(); next != nil {
			resp["next_run"] = next.Format(time.RFC3339)
		}
	}
	if sc.settings != nil {
		last, err := scheduler.ReadStatus(sc.settings)
		if err != nil {
			respondInternalError(c, err, "read refresh status")
			return
		}
		resp["last_refresh"] = last
	}
	c.JSON(http.StatusOK, resp)
}
