package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/coinboard/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket dashboard service",
	Long: `Poll CoinGecko in the background and serve the dashboard over HTTP.

Routes:
  GET  /api/global
  GET  /api/coins?q=&page=&sort=&order=&favorites=
  GET  /api/coins/top?n=10
  GET  /api/coins/{id}
  GET  /api/coins/{id}/chart?range=7D
  GET  /api/coins/{id}/chart.png?range=7D
  GET  /api/settings
  POST /api/favorites/{id}
  PUT  /api/settings/dark-mode
  GET  /ws`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client, err := newClient()
	if err != nil {
		return err
	}
	prefs, err := openSettings(ctx)
	if err != nil {
		return err
	}
	defer prefs.Close()

	board, err := newBoard(client, prefs)
	if err != nil {
		return err
	}

	shutdown, err := cfg.Server.ParseShutdownTimeout()
	if err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(board, prefs, client, server.Options{
		Addr:            addr,
		ShutdownTimeout: shutdown,
		DefaultRange:    defaultRange(),
		Render:          renderOptions(false),
	})

	go func() {
		if err := board.Run(ctx); err != nil {
			log.Error().Err(err).Msg("dashboard polling stopped")
		}
	}()

	return srv.ListenAndServe(ctx)
}
