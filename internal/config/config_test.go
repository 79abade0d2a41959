package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 20, cfg.Sync.PageSize)
	assert.Equal(t, 3, cfg.Sync.InitialPageMultiplier)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 1, cfg.Retry.BackoffMultiplier)
	assert.Equal(t, 3*time.Second, cfg.Retry.BaseWait)
	assert.False(t, cfg.Refresh.Enabled)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com")
	t.Setenv("API_TOKEN", "abc")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("RETRY_BASE_WAIT", "500ms")
	t.Setenv("REFRESH_ENABLED", "true")
	t.Setenv("HTTP_PORT", "9000")

	cfg := NewConfig()

	assert.Equal(t, "https://shop.example.com", cfg.API.BaseURL)
	assert.Equal(t, "abc", cfg.API.Token)
	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseWait)
	assert.True(t, cfg.Refresh.Enabled)
	assert.Equal(t, int32(9000), cfg.HTTP.Port)
}
