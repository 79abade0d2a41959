package http

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// EntityStore reads synced rows back from the local store.
type EntityStore interface {
	Names() []string
	List(name string, limit, offset int) (any, error)
	Count(name string) (int64, error)
}

type EntitiesController struct {
	store EntityStore
}

func NewEntitiesController(store EntityStore) *EntitiesController {
	return &EntitiesController{store: store}
}

// Names handles GET /api/entities.
func (ec *EntitiesController) Names(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": ec.store.Names()})
}

// List handles GET /api/entities/:entity?limit=&offset=.
func (ec *EntitiesController) List(c *gin.Context) {
	entity := c.Param("entity")
	if !slices.Contains(ec.store.Names(), entity) {
		respondNotFound(c, "entity "+entity)
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	rows, err := ec.store.List(entity, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list "+entity)
		return
	}
	total, err := ec.store.Count(entity)
	if err != nil {
		respondInternalError(c, err, "count "+entity)
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    rows,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	})
}
