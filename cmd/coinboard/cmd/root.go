package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/coinboard/config"
	"github.com/rustyeddy/coinboard/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	storeKind string
	storeDSN  string

	// cfg is loaded before every command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "coinboard",
	Short: "A cryptocurrency price dashboard for the terminal and the browser",
	Long: `Coinboard follows the CoinGecko market: a sortable, searchable coin list
with favorites and global stats, and per-coin detail with price history
charts over 1D, 7D, 30D, 6M, 1Y and ALL ranges.

It runs as a CLI, as an HTTP/websocket service (coinboard serve) or as a
terminal UI (coinboard tui).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: console or json")
	pf.StringVar(&storeKind, "store", "", "settings store: file, sqlite, redis, postgres or memory")
	pf.StringVar(&storeDSN, "store-dsn", "", "settings store path, URL or DSN")
}

// setup loads the config, applies flag overrides and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(cfgFile); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("store") {
		cfg.Store.Type = storeKind
	}
	if flags.Changed("store-dsn") {
		cfg.Store.DSN = storeDSN
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var w io.Writer = os.Stderr
	if cmd.Name() == tuiCmd.Name() {
		// the terminal belongs to the UI
		w = io.Discard
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
	}

	if _, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, w); err != nil {
		return err
	}
	return nil
}
