package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rustyeddy/coinboard/chart"
	"github.com/rustyeddy/coinboard/coingecko"
	"github.com/rustyeddy/coinboard/dashboard"
	"github.com/rustyeddy/coinboard/detail"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps client errors to HTTP statuses: bad input is 400, a coin
// CoinGecko does not know is 404 and any other upstream failure is 502.
func statusFor(err error) int {
	var fe *coingecko.FetchError
	switch {
	case coingecko.IsValidation(err):
		return http.StatusBadRequest
	case coingecko.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &fe):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	ev := s.logger.Warn()
	if status >= 500 {
		ev = s.logger.Error()
	}
	ev.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	writeError(w, status, err.Error())
}

// rawCoinID returns the still escaped {id} segment of /api/coins/{id}/...
// or /api/favorites/{id}.
func rawCoinID(r *http.Request) string {
	parts := strings.Split(strings.TrimPrefix(r.URL.EscapedPath(), "/"), "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	g, ok := s.board.Global()
	if !ok {
		msg := "global stats not loaded yet"
		if err := s.board.GlobalError(); err != nil {
			msg = err.Error()
		}
		writeError(w, http.StatusServiceUnavailable, msg)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var query dashboard.Query
	var err error

	if v := q.Get("page"); v != "" {
		if query.Page, err = strconv.Atoi(v); err != nil || query.Page < 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid page %q", v))
			return
		}
	}
	if query.Sort, err = dashboard.ParseSortKey(q.Get("sort")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if query.Desc, err = dashboard.ParseOrder(q.Get("order")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if v := q.Get("favorites"); v != "" {
		if query.FavoritesOnly, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid favorites %q", v))
			return
		}
	}
	query.Search = q.Get("q")

	writeJSON(w, http.StatusOK, s.board.Query(query))
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	n := dashboard.DefaultTop
	if v := r.URL.Query().Get("n"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid n %q", v))
			return
		}
	}
	writeJSON(w, http.StatusOK, s.board.TopByMarketCap(n))
}

func (s *Server) handleCoin(w http.ResponseWriter, r *http.Request) {
	v, err := detail.NewView(s.fetcher, rawCoinID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := v.LoadCoin(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	d, _ := v.Coin()
	writeJSON(w, http.StatusOK, d)
}

// loadChart runs the chart pipeline for the request's coin and range.
func (s *Server) loadChart(r *http.Request) (*detail.View, error) {
	label := s.opts.DefaultRange
	if raw := r.URL.Query().Get("range"); raw != "" {
		var err error
		if label, err = chart.ParseRange(raw); err != nil {
			return nil, &coingecko.ValidationError{Field: "range", Reason: err.Error()}
		}
	}

	v, err := detail.NewView(s.fetcher, rawCoinID(r), detail.WithLocation(s.opts.Location))
	if err != nil {
		return nil, err
	}
	if err := v.SelectRange(r.Context(), label); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	v, err := s.loadChart(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Chart())
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	v, err := s.loadChart(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	st := v.Chart()
	if len(st.Points) == 0 {
		writeError(w, http.StatusNotFound, detail.NoChartData)
		return
	}

	opts := s.opts.Render
	if s.prefs != nil {
		opts.DarkMode = s.prefs.DarkMode()
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("%s %s", v.ID(), st.Range)
	if err := chart.Render(&buf, title, st.Points, st.Domain, opts); err != nil {
		s.fail(w, r, fmt.Errorf("render chart: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if s.prefs == nil {
		writeError(w, http.StatusServiceUnavailable, "settings unavailable")
		return
	}
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}

type favoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	on, err := s.board.ToggleFavorite(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{ID: id, Favorite: on})
}

type darkModeRequest struct {
	DarkMode *bool `json:"darkMode"`
}

func (s *Server) handleDarkMode(w http.ResponseWriter, r *http.Request) {
	if s.prefs == nil {
		writeError(w, http.StatusServiceUnavailable, "settings unavailable")
		return
	}

	var req darkModeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DarkMode == nil {
		writeError(w, http.StatusBadRequest, "darkMode is required")
		return
	}

	if err := s.prefs.SetDarkMode(r.Context(), *req.DarkMode); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.prefs.Snapshot())
}
