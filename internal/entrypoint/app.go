package entrypoint

import (
	"fmt"
	"log"

	"github.com/mrlokans/shoplist/internal/audit"
	"github.com/mrlokans/shoplist/internal/catalog"
	"github.com/mrlokans/shoplist/internal/config"
	"github.com/mrlokans/shoplist/internal/database"
	"github.com/mrlokans/shoplist/internal/database/settings"
	"github.com/mrlokans/shoplist/internal/database/syncevents"
	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/remote"
	"github.com/mrlokans/shoplist/internal/retry"
)

// App holds the components shared by the server and the CLI commands.
type App struct {
	DB       *database.Database
	Settings *settings.Repository
	Events   *syncevents.Repository
	Audit    *audit.Service
	Client   *remote.Client
	Catalog  *catalog.Catalog
}

// NewApp opens the sync database and wires the remote client and catalog.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	settingsRepo := settings.NewRepository(db.DB)
	credentials := remote.NewSettingsCredentials(settingsRepo, cfg.API.Token)
	if cfg.API.Token == "" {
		log.Printf("WARNING: API_TOKEN is not set. Requests fail unless a token is stored in settings under %q.", entities.SettingKeyAPIToken)
	}

	client := remote.NewClient(cfg.API.BaseURL, credentials, remote.WithTimeout(cfg.API.Timeout))
	events := syncevents.NewRepository(db.DB)
	auditService := audit.NewService(events)

	return &App{
		DB:       db,
		Settings: settingsRepo,
		Events:   events,
		Audit:    auditService,
		Client:   client,
		Catalog: catalog.New(db, client, catalog.Config{
			PageSize:              cfg.Sync.PageSize,
			InitialPageMultiplier: cfg.Sync.InitialPageMultiplier,
			Retry:                 RetryFactory(cfg.Retry),
			OnLoad:                auditService.RecordLoad,
		}),
	}, nil
}

// RetryFactory builds retry policies from configuration.
func RetryFactory(cfg config.Retry) retry.Factory {
	return func() *retry.Policy {
		return retry.NewPolicy(cfg.MaxAttempts,
			retry.WithBackoffMultiplier(cfg.BackoffMultiplier),
			retry.WithBaseWait(cfg.BaseWait),
		)
	}
}

// Close waits for pending sync events and releases the database.
func (a *App) Close() error {
	a.Audit.Wait()
	return a.DB.Close()
}
