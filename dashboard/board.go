// Package dashboard keeps the coin list and global market stats shown on the
// main screen and answers search, sort and pagination queries over them.
package dashboard

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/coinboard/coingecko"
	"github.com/rustyeddy/coinboard/internal/poll"
	"github.com/rustyeddy/coinboard/market"
	"github.com/rustyeddy/coinboard/settings"
)

// DefaultPollInterval is how often Run refreshes the coin list.
const DefaultPollInterval = 5 * time.Second

// Source supplies market data. *coingecko.Client satisfies it.
type Source interface {
	Markets(ctx context.Context, req coingecko.MarketsRequest) ([]market.CoinSummary, error)
	Global(ctx context.Context) (market.GlobalStats, error)
}

// Options configures a Board. Zero values pick the defaults.
type Options struct {
	Currency     string        // default usd
	PerPage      int           // coins requested per refresh, default 100
	PageSize     int           // rows per page, default 10
	PollInterval time.Duration // default 5s
}

// Snapshot is the board state published to subscribers.
type Snapshot struct {
	Coins       []market.CoinSummary `json:"coins"`
	Global      *market.GlobalStats  `json:"global,omitempty"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Error       string               `json:"error,omitempty"`
	GlobalError string               `json:"globalError,omitempty"`
}

// Board holds the most recent successful fetches. A failed refresh keeps the
// previous data and records the error.
type Board struct {
	src    Source
	prefs  *settings.Settings
	opts   Options
	logger zerolog.Logger

	mu        sync.RWMutex
	coins     []market.CoinSummary
	global    *market.GlobalStats
	updatedAt time.Time
	lastErr   error
	globalErr error

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// New creates an empty board. prefs may be nil, in which case no coin is a
// favorite and ToggleFavorite fails.
func New(src Source, prefs *settings.Settings, opts Options) *Board {
	if opts.Currency == "" {
		opts.Currency = coingecko.DefaultCurrency
	}
	if opts.PerPage <= 0 {
		opts.PerPage = coingecko.DefaultPerPage
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	return &Board{
		src:    src,
		prefs:  prefs,
		opts:   opts,
		logger: log.With().Str("component", "dashboard").Logger(),
		coins:  []market.CoinSummary{},
		subs:   make(map[int]chan Snapshot),
	}
}

// Options returns the effective options.
func (b *Board) Options() Options {
	return b.opts
}

// Refresh fetches the coin list. On failure the previous list stays in place.
func (b *Board) Refresh(ctx context.Context) error {
	coins, err := b.src.Markets(ctx, coingecko.MarketsRequest{
		Currency: b.opts.Currency,
		PerPage:  b.opts.PerPage,
		Page:     1,
	})

	b.mu.Lock()
	if err != nil {
		b.lastErr = err
	} else {
		b.coins = coins
		b.lastErr = nil
		b.updatedAt = time.Now()
	}
	b.mu.Unlock()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			b.logger.Error().Err(err).Msg("refresh coin list")
		}
	} else {
		b.logger.Debug().Int("coins", len(coins)).Msg("coin list refreshed")
	}

	b.publish()
	return err
}

// RefreshGlobal fetches the global market stats. On failure the previous
// stats stay in place.
func (b *Board) RefreshGlobal(ctx context.Context) error {
	stats, err := b.src.Global(ctx)

	b.mu.Lock()
	if err != nil {
		b.globalErr = err
	} else {
		b.global = &stats
		b.globalErr = nil
	}
	b.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error().Err(err).Msg("refresh global stats")
	}

	b.publish()
	return err
}

// Run refreshes both the coin list and the global stats once, then the coin
// list every PollInterval until ctx is done. Fetch errors never stop it.
func (b *Board) Run(ctx context.Context) error {
	_ = b.Refresh(ctx)
	_ = b.RefreshGlobal(ctx)

	p := poll.New(b.opts.PollInterval, func(ctx context.Context) {
		_ = b.Refresh(ctx)
	})
	if err := p.Start(ctx); err != nil {
		return err
	}
	b.logger.Info().Dur("interval", b.opts.PollInterval).Msg("polling coin list")

	<-ctx.Done()
	p.Stop()
	return nil
}

// Coins returns a copy of the current coin list in market cap order.
func (b *Board) Coins() []market.CoinSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.coins)
}

// Global returns the latest global stats and whether any have been loaded.
func (b *Board) Global() (market.GlobalStats, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.global == nil {
		return market.GlobalStats{}, false
	}
	return *b.global, true
}

// LastError is the error of the most recent coin list refresh, or nil.
func (b *Board) LastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// GlobalError is the error of the most recent global stats refresh, or nil.
func (b *Board) GlobalError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.globalErr
}

// Snapshot copies the current state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Coins:     slices.Clone(b.coins),
		UpdatedAt: b.updatedAt,
	}
	if b.global != nil {
		g := *b.global
		snap.Global = &g
	}
	if b.lastErr != nil {
		snap.Error = b.lastErr.Error()
	}
	if b.globalErr != nil {
		snap.GlobalError = b.globalErr.Error()
	}
	return snap
}

// Subscribe returns a channel that receives a snapshot after every refresh
// attempt, and a function that unsubscribes and closes it. Slow readers only
// see the latest snapshot.
func (b *Board) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	b.subMu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch
	b.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.subMu.Lock()
			delete(b.subs, id)
			b.subMu.Unlock()
			close(ch)
		})
	}
}

func (b *Board) publish() {
	snap := b.Snapshot()

	b.subMu.Lock()
	defer b.subMu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
