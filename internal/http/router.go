package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	syncController := NewSyncController(cfg.Catalog, cfg.Tasks, cfg.Refresh, cfg.Settings)
	entitiesController := NewEntitiesController(cfg.Catalog)
	shoppingList := NewShoppingListController(cfg.Catalog)
	products := NewProductsController(cfg.Catalog)

	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	api.GET("/cursors", syncController.Cursors)
	api.GET("/sync/status", syncController.Status)
	api.POST("/sync/:entity", syncController.Load)

	api.GET("/entities", entitiesController.Names)
	api.GET("/entities/:entity", entitiesController.List)

	api.GET("/products/search", products.Search)

	api.POST("/shopping-list", shoppingList.Add)
	api.DELETE("/shopping-list/:id", shoppingList.Remove)

	if cfg.Events != nil {
		eventsController := NewEventsController(cfg.Events)
		api.GET("/sync/events", eventsController.List)
	}

	if cfg.Tasks != nil {
		tasksController := NewTasksController(cfg.Tasks)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
