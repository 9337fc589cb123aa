package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProduction(t *testing.T) {
	require.True(t, Config{Env: "prod"}.Production())
	require.True(t, Config{Env: "production"}.Production())
	require.False(t, Config{Env: "dev"}.Production())
	require.False(t, Config{Env: ""}.Production())
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, 30*time.Second, cfg.TTL)
	require.Equal(t, "cache", cfg.Prefix)
	require.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadCacheConfigFromEnv(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "off")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_PREFIX", "p")

	cfg := LoadCacheConfig()
	require.False(t, cfg.Enabled)
	require.Equal(t, 2*time.Minute, cfg.TTL)
	require.Equal(t, "p", cfg.Prefix)
}

func TestLoadRateLimitConfigClampsBadValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_LIMIT", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "-1s")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Limit)
	require.Equal(t, time.Minute, cfg.Window)
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	require.Equal(t, 5, envInt("X_INT", 5))
	require.Equal(t, time.Second, envDur("X_DUR", time.Second))
	require.True(t, envBool("X_BOOL", true))
}
