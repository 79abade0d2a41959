package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shoplist/internal/catalog"
	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/remote"
	"github.com/mrlokans/shoplist/internal/stream"
	"github.com/mrlokans/shoplist/internal/taskresult"
)

// ShoppingList performs shopping-list mutations against the remote API.
type ShoppingList interface {
	AddToShoppingList(ctx context.Context, item catalog.NewShoppingListItem) <-chan taskresult.Result[entities.ShoppingListItem]
	RemoveFromShoppingList(ctx context.Context, id uint) <-chan taskresult.Result[remote.Empty]
}

type ShoppingListController struct {
	list ShoppingList
}

func NewShoppingListController(list ShoppingList) *ShoppingListController {
	return &ShoppingListController{list: list}
}

type addItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// Add handles POST /api/shopping-list.
func (sc *ShoppingListController) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	result := stream.Terminal(sc.list.AddToShoppingList(c.Request.Context(), catalog.NewShoppingListItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Note:      req.Note,
	}))
	if !respondResult(c, result) {
		return
	}
	c.JSON(http.StatusCreated, result.Value())
}

// Remove handles DELETE /api/shopping-list/:id.
func (sc *ShoppingListController) Remove(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !respondResult(c, stream.Terminal(sc.list.RemoveFromShoppingList(c.Request.Context(), id))) {
		return
	}
	c.Status(http.StatusNoContent)
}

// respondResult writes the failure response of a non-successful result and
// reports whether the caller should write the success response.
func respondResult[T any](c *gin.Context, result taskresult.Result[T]) bool {
	switch {
	case result.IsSuccess():
		return true
	case result.IsError():
		respondRemoteError(c, result.Err())
	default:
		// Stream closed without a terminal result: the request was cancelled.
		c.Status(499)
	}
	return false
}
