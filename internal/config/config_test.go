package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	t.Setenv("PG_DSN", "postgres://localhost/deals")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.InDelta(200, cfg.Planner.Threshold, 0)
	rq.Equal(5, cfg.Planner.DealCount)
	rq.Equal(10, cfg.Feed.EntriesPerFeed)
	rq.Equal("json", cfg.Memory.Backend)
	rq.Equal(3, cfg.Retry.MaxAttempts)
	rq.Equal(500*time.Millisecond, cfg.Retry.BaseDelay)
	rq.False(cfg.Redis.Enabled())
	rq.False(cfg.Specialist.Enabled())
	rq.False(cfg.Statistical.Enabled())
	rq.False(cfg.Bot.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	rq := require.New(t)

	t.Setenv("PG_DSN", "postgres://localhost/deals")
	t.Setenv("FEED_URLS", "audio=https://example.com/a.rss,toys=https://example.com/t")
	t.Setenv("EMAIL_TO", "a@example.com,b@example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("MEMORY_BACKEND", "sqlite")
	t.Setenv("LLM_PROVIDER", "gemini")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(map[string]string{
		"audio": "https://example.com/a.rss",
		"toys":  "https://example.com/t",
	}, cfg.Feed.URLs)
	rq.True(cfg.Email.Enabled())
	rq.Equal(5, cfg.Retry.MaxAttempts)
	rq.True(cfg.Memory.UsesSQLite())
	rq.True(cfg.LLM.UsesGemini())
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("PG_DSN", "")

	_, err := config.Load()
	require.Error(t, err)
}
