// Package config loads coinboard's settings from a YAML or JSON file, a .env
// file and the environment, in that order of precedence (lowest first).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/coinboard/chart"
	"github.com/rustyeddy/coinboard/coingecko"
	"github.com/rustyeddy/coinboard/settings"
)

// Environment variables that override the file.
const (
	EnvAPIKey   = "COINGECKO_API_KEY"
	EnvStore    = "COINBOARD_STORE"
	EnvStoreDSN = "COINBOARD_STORE_DSN"
	EnvAddr     = "COINBOARD_ADDR"
	EnvLogLevel = "COINBOARD_LOG_LEVEL"
)

// Config is the complete application configuration.
type Config struct {
	API       APIConfig       `json:"api" yaml:"api"`
	Dashboard DashboardConfig `json:"dashboard" yaml:"dashboard"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Chart     ChartConfig     `json:"chart" yaml:"chart"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
}

// APIConfig configures the CoinGecko client.
type APIConfig struct {
	BaseURL        string  `json:"base_url" yaml:"base_url"`
	APIKey         string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Timeout        string  `json:"timeout" yaml:"timeout"` // e.g. "30s"
	RequestsPerSec float64 `json:"requests_per_sec" yaml:"requests_per_sec"`
	Burst          int     `json:"burst" yaml:"burst"`
	MaxRetries     int     `json:"max_retries" yaml:"max_retries"`
}

// ParseTimeout converts Timeout to a duration. Empty means zero.
func (a APIConfig) ParseTimeout() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(a.Timeout)
}

// ClientOptions builds the CoinGecko client options.
func (a APIConfig) ClientOptions() (coingecko.Options, error) {
	timeout, err := a.ParseTimeout()
	if err != nil {
		return coingecko.Options{}, fmt.Errorf("api.timeout: %w", err)
	}
	return coingecko.Options{
		BaseURL:        a.BaseURL,
		APIKey:         a.APIKey,
		Timeout:        timeout,
		RequestsPerSec: a.RequestsPerSec,
		Burst:          a.Burst,
		MaxRetries:     a.MaxRetries,
	}, nil
}

// DashboardConfig configures the coin list.
type DashboardConfig struct {
	Currency     string `json:"currency" yaml:"currency"`
	PerPage      int    `json:"per_page" yaml:"per_page"`
	PageSize     int    `json:"page_size" yaml:"page_size"`
	PollInterval string `json:"poll_interval" yaml:"poll_interval"` // e.g. "5s"
}

// ParsePollInterval converts PollInterval to a duration.
func (d DashboardConfig) ParsePollInterval() (time.Duration, error) {
	if d.PollInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(d.PollInterval)
}

// StoreConfig selects the preference store.
type StoreConfig struct {
	Type string `json:"type" yaml:"type"` // file, sqlite, redis, postgres or memory
	DSN  string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// ServerConfig configures `coinboard serve`.
type ServerConfig struct {
	Addr            string `json:"addr" yaml:"addr"`
	ShutdownTimeout string `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ParseShutdownTimeout converts ShutdownTimeout to a duration.
func (s ServerConfig) ParseShutdownTimeout() (time.Duration, error) {
	if s.ShutdownTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(s.ShutdownTimeout)
}

// ChartConfig holds chart defaults.
type ChartConfig struct {
	DefaultRange string `json:"default_range" yaml:"default_range"`
	Width        int    `json:"width" yaml:"width"`
	Height       int    `json:"height" yaml:"height"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // console or json
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// DefaultStorePath is where the file store keeps preferences.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "coinboard", "settings.json")
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        coingecko.PublicURL,
			Timeout:        "30s",
			RequestsPerSec: 5,
			Burst:          5,
		},
		Dashboard: DashboardConfig{
			Currency:     coingecko.DefaultCurrency,
			PerPage:      coingecko.DefaultPerPage,
			PageSize:     10,
			PollInterval: "5s",
		},
		Store: StoreConfig{
			Type: settings.KindFile,
			DSN:  DefaultStorePath(),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},
		Chart: ChartConfig{
			DefaultRange: string(chart.DefaultRange),
			Width:        960,
			Height:       480,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile reads a YAML or JSON file over the defaults and validates the
// result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads path when it is not empty, then applies .env and the
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := LoadEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads .env from the working directory when one exists. Variables
// already set in the environment win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.API.APIKey = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		c.Store.Type = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if _, err := c.API.ParseTimeout(); err != nil {
		return fmt.Errorf("api.timeout: %w", err)
	}
	if c.API.RequestsPerSec < 0 {
		return errors.New("api.requests_per_sec must not be negative")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must not be negative")
	}

	if c.Dashboard.PerPage < 0 || c.Dashboard.PerPage > coingecko.MaxPerPage {
		return fmt.Errorf("dashboard.per_page must be between 1 and %d", coingecko.MaxPerPage)
	}
	if c.Dashboard.PageSize < 0 {
		return errors.New("dashboard.page_size must not be negative")
	}
	if d, err := c.Dashboard.ParsePollInterval(); err != nil {
		return fmt.Errorf("dashboard.poll_interval: %w", err)
	} else if d < 0 {
		return errors.New("dashboard.poll_interval must not be negative")
	}

	kind := strings.ToLower(c.Store.Type)
	valid := false
	for _, k := range settings.Kinds() {
		if kind == k {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("store.type must be one of %s", strings.Join(settings.Kinds(), ", "))
	}
	if kind != settings.KindMemory && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn required for %s store", kind)
	}

	if _, err := c.Server.ParseShutdownTimeout(); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}

	if _, err := chart.ParseRange(c.Chart.DefaultRange); err != nil {
		return fmt.Errorf("chart.default_range: %w", err)
	}
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return errors.New("chart width and height must not be negative")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be 'console' or 'json'")
	}
	return nil
}
