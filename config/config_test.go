package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.API.BaseURL)
	assert.Equal(t, "usd", cfg.Dashboard.Currency)
	assert.Equal(t, "7D", cfg.Chart.DefaultRange)
	assert.Equal(t, "file", cfg.Store.Type)
	assert.NoError(t, cfg.Validate())

	d, err := cfg.Dashboard.ParsePollInterval()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "missing base url",
			mutate: func(c *Config) { c.API.BaseURL = "" },
			errMsg: "api.base_url is required",
		},
		{
			name:   "bad timeout",
			mutate: func(c *Config) { c.API.Timeout = "soon" },
			errMsg: "api.timeout",
		},
		{
			name:   "negative retries",
			mutate: func(c *Config) { c.API.MaxRetries = -1 },
			errMsg: "api.max_retries must not be negative",
		},
		{
			name:   "per page too large",
			mutate: func(c *Config) { c.Dashboard.PerPage = 500 },
			errMsg: "dashboard.per_page must be between 1 and 250",
		},
		{
			name:   "bad poll interval",
			mutate: func(c *Config) { c.Dashboard.PollInterval = "often" },
			errMsg: "dashboard.poll_interval",
		},
		{
			name:   "unknown store",
			mutate: func(c *Config) { c.Store.Type = "etcd" },
			errMsg: "store.type must be one of",
		},
		{
			name:   "sqlite without dsn",
			mutate: func(c *Config) { c.Store = StoreConfig{Type: "sqlite"} },
			errMsg: "store.dsn required for sqlite store",
		},
		{
			name:   "memory without dsn",
			mutate: func(c *Config) { c.Store = StoreConfig{Type: "memory"} },
		},
		{
			name:   "unknown range",
			mutate: func(c *Config) { c.Chart.DefaultRange = "2W" },
			errMsg: "chart.default_range",
		},
		{
			name:   "bad log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
			errMsg: "logging.format must be 'console' or 'json'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.Store = StoreConfig{Type: "sqlite", DSN: filepath.Join(tmpDir, "prefs.db")}
	cfg.Chart.DefaultRange = "30D"

	for _, name := range []string{"config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard:\n  poll_interval: 15s\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "15s", cfg.Dashboard.PollInterval)
	assert.Equal(t, 100, cfg.Dashboard.PerPage)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart:\n  default_range: 2W\n"), 0o644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "demo-key")
	t.Setenv(EnvStore, "memory")
	t.Setenv(EnvAddr, "127.0.0.1:9999")
	t.Setenv(EnvLogLevel, "debug")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "demo-key", cfg.API.APIKey)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COINBOARD_STORE_DSN=/tmp/from-env.db\n"), 0o644))
	t.Setenv(EnvStoreDSN, "")
	os.Unsetenv(EnvStoreDSN)

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "/tmp/from-env.db", os.Getenv(EnvStoreDSN))

	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestClientOptions(t *testing.T) {
	cfg := Default()
	cfg.API.MaxRetries = 2
	opts, err := cfg.API.ClientOptions()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 2, opts.MaxRetries)
}
