package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/stream"
	"github.com/mrlokans/shoplist/internal/taskresult"
)

// ProductSearch runs switch-latest product searches against the remote API.
type ProductSearch interface {
	SearchProducts(ctx context.Context) *stream.Latest[string, []entities.Product]
}

type ProductsController struct {
	search ProductSearch
}

func NewProductsController(search ProductSearch) *ProductsController {
	return &ProductsController{search: search}
}

type searchResponse struct {
	Query   string             `json:"query"`
	Count   int                `json:"count"`
	Results []entities.Product `json:"results"`
}

// Search handles GET /api/products/search?q=.
func (pc *ProductsController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}

	ctx := c.Request.Context()
	search := pc.search.SearchProducts(ctx)
	defer search.Close()

	search.Submit(query)
	result, err := stream.Await(ctx, search.Results())
	if err != nil {
		c.Status(499)
		return
	}

	response := taskresult.Map(result, func(products []entities.Product) searchResponse {
		return searchResponse{Query: query, Count: len(products), Results: products}
	})
	if !respondResult(c, response) {
		return
	}
	c.JSON(http.StatusOK, response.Value())
}
