package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shoplist/internal/entities"
)

// EventStore reads the sync journal.
type EventStore interface {
	GetEvents(endpoint string, limit, offset int) ([]entities.SyncEvent, int64, error)
}

type EventsController struct {
	events EventStore
}

func NewEventsController(events EventStore) *EventsController {
	return &EventsController{events: events}
}

// List handles GET /api/sync/events?endpoint=&limit=&offset=
func (ec *EventsController) List(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	events, total, err := ec.events.GetEvents(c.Query("endpoint"), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list sync events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	})
}
