package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/config"
	"kriptomarket/internal/preference"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg, err := config.Default()

	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, 60*time.Second, cfg.Poll.Interval)
	require.Equal(t, 4*time.Minute, cfg.Poll.MaxInterval)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, []asset.Source{asset.SourceCoinGecko, asset.SourceDexScreener, asset.SourceCoinCap}, cfg.Sources())
	require.Equal(t, 30, cfg.CoinGecko.MaxRequestsPerMinute)
	require.Equal(t, 30*time.Second, cfg.DexScreener.CacheTTL)
	require.Equal(t, "*", cfg.DexScreener.Query)
	require.Empty(t, cfg.DexScreener.Tokens)
	require.Equal(t, preference.BackendSQLite, cfg.Preference.Backend)
	require.Equal(t, "kriptomarket_preferences", cfg.Preference.Redis.HashKey)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "kriptomarket.toml")
	content := `
[Fetch]
Sources = ["coincap", "coingecko"]
Limit = 25

[Poll]
Interval = "15s"

[DexScreener]
Tokens = ["0xabc", "0xdef"]

[Preference]
Backend = "memory"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Act
	cfg, err := config.Load(path)

	// Assert
	require.NoError(t, err)
	require.Equal(t, []asset.Source{asset.SourceCoinCap, asset.SourceCoinGecko}, cfg.Sources())
	require.Equal(t, 25, cfg.Fetch.Limit)
	require.Equal(t, 15*time.Second, cfg.Poll.Interval)
	require.Equal(t, []string{"0xabc", "0xdef"}, cfg.DexScreener.Tokens)
	require.Equal(t, preference.BackendMemory, cfg.Preference.Backend)
	// untouched keys keep their defaults
	require.Equal(t, "https://rest.coincap.io/v3", cfg.CoinCap.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KRIPTOMARKET_COINGECKO_APIKEY", "demo-key")
	t.Setenv("KRIPTOMARKET_FETCH_SOURCES", "dexscreener,coincap")
	t.Setenv("KRIPTOMARKET_POLL_INTERVAL", "2m")
	t.Setenv("KRIPTOMARKET_PREFERENCE_REDIS_ADDR", "redis:6379")

	cfg, err := config.Load("")

	require.NoError(t, err)
	require.Equal(t, "demo-key", cfg.CoinGecko.APIKey)
	require.Equal(t, []asset.Source{asset.SourceDexScreener, asset.SourceCoinCap}, cfg.Sources())
	require.Equal(t, 2*time.Minute, cfg.Poll.Interval)
	require.Equal(t, "redis:6379", cfg.Preference.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))

	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{name: "no sources", mutate: func(c *config.Config) { c.Fetch.Sources = nil }},
		{name: "unknown source", mutate: func(c *config.Config) { c.Fetch.Sources = []string{"binance"} }},
		{name: "disabled source", mutate: func(c *config.Config) { c.CoinCap.Enabled = false }},
		{name: "negative limit", mutate: func(c *config.Config) { c.Fetch.Limit = -1 }},
		{name: "negative interval", mutate: func(c *config.Config) { c.Poll.Interval = -time.Second }},
		{name: "unknown backend", mutate: func(c *config.Config) { c.Preference.Backend = "etcd" }},
		{name: "redis without addr", mutate: func(c *config.Config) {
			c.Preference.Backend = preference.BackendRedis
			c.Preference.Redis.Addr = ""
		}},
		{name: "metrics endpoint", mutate: func(c *config.Config) {
			c.Metrics.Enabled = true
			c.Metrics.Endpoint = "metrics"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.Default()
			require.NoError(t, err)
			tt.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}
