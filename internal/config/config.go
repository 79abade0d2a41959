package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		API
		Sync
		Retry
		Refresh
		Database
		Tasks
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	API struct {
		BaseURL string
		Token   string // Fallback when no token is stored in settings
		Timeout time.Duration
	}
	Sync struct {
		PageSize              int
		InitialPageMultiplier int // Refresh loads PageSize*multiplier items
	}
	Retry struct {
		MaxAttempts       int
		BackoffMultiplier int
		BaseWait          time.Duration
	}
	Refresh struct {
		Enabled  bool
		Schedule string // Cron format: "*/30 * * * *" = every 30 minutes
	}
	Database struct {
		Path string
	}
	Audit struct {
		RetentionDays int // Days to keep sync events (default: 30)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("http_port", 8188)
	v.SetDefault("http_host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("api_token", "")
	v.SetDefault("api_timeout", "30s")

	v.SetDefault("page_size", 20)
	v.SetDefault("initial_page_multiplier", 3)

	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_backoff_multiplier", 1)
	v.SetDefault("retry_base_wait", "3s")

	v.SetDefault("refresh_enabled", false)
	v.SetDefault("refresh_schedule", "*/30 * * * *")

	v.SetDefault("audit_retention_days", 30)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("HTTP_PORT"),
			Host: v.GetString("HTTP_HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		API: API{
			BaseURL: v.GetString("API_BASE_URL"),
			Token:   v.GetString("API_TOKEN"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Sync: Sync{
			PageSize:              v.GetInt("PAGE_SIZE"),
			InitialPageMultiplier: v.GetInt("INITIAL_PAGE_MULTIPLIER"),
		},
		Retry: Retry{
			MaxAttempts:       v.GetInt("RETRY_MAX_ATTEMPTS"),
			BackoffMultiplier: v.GetInt("RETRY_BACKOFF_MULTIPLIER"),
			BaseWait:          v.GetDuration("RETRY_BASE_WAIT"),
		},
		Refresh: Refresh{
			Enabled:  v.GetBool("REFRESH_ENABLED"),
			Schedule: v.GetString("REFRESH_SCHEDULE"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
