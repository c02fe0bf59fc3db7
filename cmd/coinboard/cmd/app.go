package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rustyeddy/coinboard/chart"
	"github.com/rustyeddy/coinboard/coingecko"
	"github.com/rustyeddy/coinboard/dashboard"
	"github.com/rustyeddy/coinboard/settings"
)

func newClient() (*coingecko.Client, error) {
	opts, err := cfg.API.ClientOptions()
	if err != nil {
		return nil, err
	}
	return coingecko.NewClient(opts), nil
}

func openSettings(ctx context.Context) (*settings.Settings, error) {
	store, err := settings.Open(ctx, cfg.Store.Type, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s settings store: %w", cfg.Store.Type, err)
	}
	prefs, err := settings.Load(ctx, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return prefs, nil
}

func newBoard(client *coingecko.Client, prefs *settings.Settings) (*dashboard.Board, error) {
	poll, err := cfg.Dashboard.ParsePollInterval()
	if err != nil {
		return nil, fmt.Errorf("dashboard.poll_interval: %w", err)
	}
	return dashboard.New(client, prefs, dashboard.Options{
		Currency:     cfg.Dashboard.Currency,
		PerPage:      cfg.Dashboard.PerPage,
		PageSize:     cfg.Dashboard.PageSize,
		PollInterval: poll,
	}), nil
}

func defaultRange() chart.RangeLabel {
	label, err := chart.ParseRange(cfg.Chart.DefaultRange)
	if err != nil {
		return chart.DefaultRange
	}
	return label
}

func renderOptions(dark bool) chart.RenderOptions {
	opts := chart.DefaultRenderOptions()
	if cfg.Chart.Width > 0 {
		opts.Width = cfg.Chart.Width
	}
	if cfg.Chart.Height > 0 {
		opts.Height = cfg.Chart.Height
	}
	opts.DarkMode = dark
	return opts
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
