package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/shoplist/internal/audit"
	"github.com/mrlokans/shoplist/internal/catalog"
	"github.com/mrlokans/shoplist/internal/cli"
	"github.com/mrlokans/shoplist/internal/database"
	"github.com/mrlokans/shoplist/internal/database/settings"
	"github.com/mrlokans/shoplist/internal/database/syncevents"
	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/http"
	"github.com/mrlokans/shoplist/internal/mediator"
	"github.com/mrlokans/shoplist/internal/remote"
	"github.com/mrlokans/shoplist/internal/scheduler"
	"github.com/mrlokans/shoplist/internal/tasks"
)

// =============================================================================
// Sync Engine
// =============================================================================

var _ mediator.Loader = (*mediator.Mediator[entities.Product])(nil)
var _ mediator.Source[entities.Product] = (*catalog.Source[entities.Product])(nil)
var _ mediator.Transactor = (*database.Database)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ remote.SettingsReader = (*settings.Repository)(nil)
var _ scheduler.StatusStore = (*settings.Repository)(nil)
var _ cli.SettingsWriter = (*settings.Repository)(nil)
var _ audit.EventLogger = (*syncevents.Repository)(nil)
var _ tasks.SyncEventCleaner = (*syncevents.Repository)(nil)
var _ http.EventStore = (*syncevents.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Catalog Consumers
// =============================================================================

var _ http.Catalog = (*catalog.Catalog)(nil)
var _ tasks.Loaders = (*catalog.Catalog)(nil)
var _ scheduler.Refresher = (*catalog.Catalog)(nil)
var _ cli.EntityLoader = (*catalog.Catalog)(nil)
var _ cli.CursorLister = (*catalog.Catalog)(nil)
var _ cli.EntityBrowser = (*catalog.Catalog)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.RefreshStatus = (*scheduler.RefreshScheduler)(nil)
var _ remote.CredentialProvider = (*remote.SettingsCredentials)(nil)
