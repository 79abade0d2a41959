package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shoplist/internal/config"
	http_controllers "github.com/mrlokans/shoplist/internal/http"
	"github.com/mrlokans/shoplist/internal/scheduler"
	"github.com/mrlokans/shoplist/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the server so in-flight requests can
	// still read state.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting shoplist sync v%s against %s", version, cfg.API.BaseURL)

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewLoadPageQueue(app.Catalog),
			tasks.NewCleanupSyncEventsQueue(app.Events),
		)
		taskClient.Start(bgCtx)

		if _, err := taskClient.Add(tasks.CleanupSyncEventsTask{RetentionDays: cfg.Audit.RetentionDays}).Save(); err != nil {
			log.Printf("[TASK] Failed to enqueue sync event cleanup: %v", err)
		}
	}

	var refresh *scheduler.RefreshScheduler
	if cfg.Refresh.Enabled {
		refresh = scheduler.NewRefreshScheduler(app.Catalog, app.Settings, cfg.Refresh.Schedule)
		if err := refresh.Start(bgCtx); err != nil {
			log.Fatalf("Failed to start refresh scheduler: %v", err)
		}
	} else {
		log.Printf("[SCHEDULER] Refresh disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:  app.Catalog,
		Database: app.DB,
		Settings: app.Settings,
		Events:   app.Events,
		Version:  version,
	}
	// Typed nils must not reach the router's interfaces.
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}
	if refresh != nil {
		routerCfg.Refresh = refresh
	}

	gin.SetMode(gin.ReleaseMode)
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if refresh != nil {
			refresh.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		bgCancel()
	}

	Serve(router, cfg, onShutdown)
}
