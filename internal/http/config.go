package http

import (
	"github.com/mrlokans/shoplist/internal/scheduler"
)

// Catalog is everything the router needs from the synced entity sets.
type Catalog interface {
	SyncStore
	EntityStore
	ShoppingList
	ProductSearch
}

// TaskQueue is the background page-load queue.
type TaskQueue interface {
	LoadQueue
	TaskStatusReader
}

// RouterConfig contains the dependencies of the HTTP router. Optional
// dependencies may be left nil.
type RouterConfig struct {
	Catalog  Catalog
	Database Pinger

	// Optional
	Tasks    TaskQueue
	Refresh  RefreshStatus
	Settings scheduler.StatusStore
	Events   EventStore
	Version  string
}
