package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults when environment is empty", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "")
		t.Setenv("SERVER_HOST", "")
		t.Setenv("METRICS_WORKERS", "")
		t.Setenv("SESSION_TTL", "")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost:5001", cfg.Server.Addr)
		assert.Equal(t, 4, cfg.Metrics.Workers)
		assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("SNAPSHOT_CRON", "")
		t.Setenv("AUTH_REQUIRED", "false")
		t.Setenv("REPORT_CURRENCY", "eur")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
		assert.Empty(t, cfg.Metrics.SnapshotCron, "explicitly empty cron disables the scheduler")
		assert.False(t, cfg.Auth.Required)
		assert.Equal(t, "EUR", cfg.Report.Currency)
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		t.Setenv("METRICS_WORKERS", "many")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("rejects zero workers", func(t *testing.T) {
		t.Setenv("METRICS_WORKERS", "0")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
