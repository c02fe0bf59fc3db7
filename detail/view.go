// Package detail drives the per-coin screen: the coin's market data and its
// price chart over a selectable range.
package detail

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/coinboard/chart"
	"github.com/rustyeddy/coinboard/coingecko"
	"github.com/rustyeddy/coinboard/internal/id"
	"github.com/rustyeddy/coinboard/market"
)

// NoChartData is shown in place of a chart when the history is empty.
const NoChartData = "No chart data available"

// Fetcher loads coin data. *coingecko.Client satisfies it.
type Fetcher interface {
	Coin(ctx context.Context, id string) (market.CoinDetail, error)
	MarketChart(ctx context.Context, coinID string, days chart.DayToken) ([]market.PricePoint, error)
}

// ChartState is what the chart area displays.
type ChartState struct {
	Range      chart.RangeLabel `json:"range"`
	Token      chart.DayToken   `json:"token"`
	Resolution string           `json:"resolution"`
	Points     []chart.Point    `json:"points"`
	Domain     *chart.Domain    `json:"domain"` // nil means automatic
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
	RequestID  string           `json:"requestId,omitempty"`
}

// BuildChart runs the formatting half of the chart pipeline over a fetched
// series. An empty series gets no domain and the NoChartData message.
func BuildChart(label chart.RangeLabel, raw []market.PricePoint, loc *time.Location) ChartState {
	res := chart.ResolutionFor(label)
	st := ChartState{
		Range:      label,
		Token:      chart.Resolve(label),
		Resolution: res.String(),
		Points:     chart.FormatIn(raw, res, loc),
	}

	dom, err := chart.ComputeDomain(st.Points)
	if err != nil {
		st.Message = NoChartData
		return st
	}
	st.Domain = &dom
	return st
}

// Option configures a View.
type Option func(*View)

// WithLocation sets the time zone used for chart labels. Default is local.
func WithLocation(loc *time.Location) Option {
	return func(v *View) { v.loc = loc }
}

// View is the detail screen state for one coin. Range selections are not
// fenced: when two are in flight, whichever response arrives last is shown.
type View struct {
	fetcher Fetcher
	coinID  string
	loc     *time.Location
	logger  zerolog.Logger

	mu       sync.Mutex
	coin     *market.CoinDetail
	coinErr  error
	selected chart.RangeLabel
	chart    ChartState
	latest   string
}

// NewView creates a view for a coin id taken from a URL path segment. The id
// is percent-decoded; an empty or undecodable id is a ValidationError.
func NewView(f Fetcher, rawID string, opts ...Option) (*View, error) {
	decoded, err := url.PathUnescape(rawID)
	if err != nil {
		return nil, &coingecko.ValidationError{Field: "coin id", Reason: fmt.Sprintf("cannot decode %q", rawID)}
	}
	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return nil, &coingecko.ValidationError{Field: "coin id", Reason: "must not be empty"}
	}

	v := &View{
		fetcher:  f,
		coinID:   decoded,
		loc:      time.Local,
		selected: chart.DefaultRange,
		chart:    ChartState{Points: []chart.Point{}},
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = log.With().Str("component", "detail").Str("coin", decoded).Logger()
	return v, nil
}

// ID is the decoded coin id.
func (v *View) ID() string {
	return v.coinID
}

// LoadCoin fetches the coin's market data.
func (v *View) LoadCoin(ctx context.Context) error {
	d, err := v.fetcher.Coin(ctx, v.coinID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.coinErr = err
		v.logger.Error().Err(err).Msg("load coin")
		return fmt.Errorf("load coin %s: %w", v.coinID, err)
	}
	v.coin = &d
	v.coinErr = nil
	return nil
}

// Coin returns the loaded coin data, if any.
func (v *View) Coin() (market.CoinDetail, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.coin == nil {
		return market.CoinDetail{}, false
	}
	return *v.coin, true
}

// CoinError is the error of the last LoadCoin, or nil.
func (v *View) CoinError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.coinErr
}

// SelectRange fetches and formats the history for label. On success the
// chart is replaced. On failure the chart on screen stays as it was and its
// Error is set.
func (v *View) SelectRange(ctx context.Context, label chart.RangeLabel) error {
	token := chart.Resolve(label)
	reqID := id.New()

	v.mu.Lock()
	v.selected = label
	v.latest = reqID
	v.mu.Unlock()

	logger := v.logger.With().Str("request_id", reqID).Str("range", string(label)).Logger()
	logger.Debug().Str("days", string(token)).Msg("fetching chart")

	raw, err := v.fetcher.MarketChart(ctx, v.coinID, token)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.latest != reqID {
		logger.Warn().Str("latest_request_id", v.latest).Msg("applying response of a superseded range request")
	}

	if err != nil {
		v.chart.Error = err.Error()
		v.chart.RequestID = reqID
		logger.Error().Err(err).Msg("fetch chart")
		return fmt.Errorf("chart %s %s: %w", v.coinID, label, err)
	}

	st := BuildChart(label, raw, v.loc)
	st.RequestID = reqID
	v.chart = st
	logger.Debug().Int("points", len(st.Points)).Msg("chart updated")
	return nil
}

// Selected is the most recently requested range.
func (v *View) Selected() chart.RangeLabel {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// Chart returns a copy of the chart state.
func (v *View) Chart() ChartState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.chart
	st.Points = append([]chart.Point{}, v.chart.Points...)
	if v.chart.Domain != nil {
		d := *v.chart.Domain
		st.Domain = &d
	}
	return st
}
