// Package server exposes the dashboard, coin details, charts and settings
// over HTTP, with a websocket that pushes every coin list refresh.
package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/coinboard/chart"
	"github.com/rustyeddy/coinboard/dashboard"
	"github.com/rustyeddy/coinboard/detail"
	"github.com/rustyeddy/coinboard/settings"
)

// Options configures a Server. Zero values pick the defaults.
type Options struct {
	Addr            string        // default :8080
	ShutdownTimeout time.Duration // default 10s
	DefaultRange    chart.RangeLabel
	Render          chart.RenderOptions
	Location        *time.Location // chart labels, default local
}

type Server struct {
	board   *dashboard.Board
	prefs   *settings.Settings
	fetcher detail.Fetcher
	opts    Options
	hub     *hub
	mux     *http.ServeMux
	logger  zerolog.Logger
}

// New wires the routes. The board is expected to be refreshed by its own
// Run loop; the server only reads it.
func New(board *dashboard.Board, prefs *settings.Settings, fetcher detail.Fetcher, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.DefaultRange == "" {
		opts.DefaultRange = chart.DefaultRange
	}
	if opts.Render.Width == 0 || opts.Render.Height == 0 {
		opts.Render = chart.DefaultRenderOptions()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	s := &Server{
		board:   board,
		prefs:   prefs,
		fetcher: fetcher,
		opts:    opts,
		mux:     http.NewServeMux(),
		logger:  log.With().Str("component", "server").Logger(),
	}
	s.hub = newHub(board, s.logger)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/global", s.handleGlobal)
	s.mux.HandleFunc("GET /api/coins", s.handleCoins)
	s.mux.HandleFunc("GET /api/coins/top", s.handleTop)
	s.mux.HandleFunc("GET /api/coins/{id}", s.handleCoin)
	s.mux.HandleFunc("GET /api/coins/{id}/chart", s.handleChart)
	s.mux.HandleFunc("GET /api/coins/{id}/chart.png", s.handleChartPNG)
	s.mux.HandleFunc("GET /api/settings", s.handleSettings)
	s.mux.HandleFunc("POST /api/favorites/{id}", s.handleToggleFavorite)
	s.mux.HandleFunc("PUT /api/settings/dark-mode", s.handleDarkMode)
	s.mux.HandleFunc("GET /ws", s.hub.serveWS)
}

// Handler returns the route multiplexer wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	stopHub()
	s.hub.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown")
		return err
	}
	s.logger.Info().Msg("HTTP server shut down")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack passes the connection through for the websocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("server: response writer cannot hijack")
	}
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
