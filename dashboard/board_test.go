package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/coinboard/coingecko"
	"github.com/rustyeddy/coinboard/market"
	"github.com/rustyeddy/coinboard/settings"
)

type fakeSource struct {
	mu          sync.Mutex
	coins       []market.CoinSummary
	global      market.GlobalStats
	err         error
	globalErr   error
	calls       int
	globalCalls int
	lastReq     coingecko.MarketsRequest
}

func (f *fakeSource) Markets(_ context.Context, req coingecko.MarketsRequest) ([]market.CoinSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return append([]market.CoinSummary(nil), f.coins...), nil
}

func (f *fakeSource) Global(context.Context) (market.GlobalStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.globalCalls++
	if f.globalErr != nil {
		return market.GlobalStats{}, f.globalErr
	}
	return f.global, nil
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleCoins(n int) []market.CoinSummary {
	coins := make([]market.CoinSummary, n)
	for i := range coins {
		coins[i] = market.CoinSummary{
			ID:            fmt.Sprintf("coin-%02d", i+1),
			Name:          fmt.Sprintf("Coin %02d", i+1),
			Symbol:        fmt.Sprintf("c%d", i+1),
			CurrentPrice:  float64(100 - i),
			MarketCap:     float64(1000 - i),
			MarketCapRank: i + 1,
		}
	}
	return coins
}

func newTestBoard(t *testing.T, src *fakeSource) (*Board, *settings.Settings) {
	t.Helper()
	prefs, err := settings.Load(context.Background(), settings.NewMemory())
	require.NoError(t, err)
	return New(src, prefs, Options{}), prefs
}

func TestNewDefaults(t *testing.T) {
	b := New(&fakeSource{}, nil, Options{})
	opts := b.Options()
	assert.Equal(t, "usd", opts.Currency)
	assert.Equal(t, 100, opts.PerPage)
	assert.Equal(t, 10, opts.PageSize)
	assert.Equal(t, 5*time.Second, opts.PollInterval)
	assert.NotNil(t, b.Coins())
	assert.Empty(t, b.Coins())
}

func TestRefresh(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(3)}
	b, _ := newTestBoard(t, src)

	require.NoError(t, b.Refresh(context.Background()))
	assert.Len(t, b.Coins(), 3)
	assert.NoError(t, b.LastError())
	assert.Equal(t, coingecko.MarketsRequest{Currency: "usd", PerPage: 100, Page: 1}, src.lastReq)
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(3)}
	b, _ := newTestBoard(t, src)
	require.NoError(t, b.Refresh(context.Background()))

	boom := errors.New("upstream down")
	src.setErr(boom)
	err := b.Refresh(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Len(t, b.Coins(), 3)
	assert.ErrorIs(t, b.LastError(), boom)
	assert.Equal(t, "upstream down", b.Snapshot().Error)

	src.setErr(nil)
	require.NoError(t, b.Refresh(context.Background()))
	assert.NoError(t, b.LastError())
}

func TestRefreshGlobal(t *testing.T) {
	src := &fakeSource{global: market.GlobalStats{TotalMarketCapUSD: 2.5e12, BTCDominance: 52.1}}
	b, _ := newTestBoard(t, src)

	_, ok := b.Global()
	assert.False(t, ok)

	require.NoError(t, b.RefreshGlobal(context.Background()))
	g, ok := b.Global()
	require.True(t, ok)
	assert.Equal(t, 52.1, g.BTCDominance)

	src.globalErr = errors.New("nope")
	require.Error(t, b.RefreshGlobal(context.Background()))
	g, ok = b.Global()
	assert.True(t, ok)
	assert.Equal(t, 52.1, g.BTCDominance)
	assert.Error(t, b.GlobalError())
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(2)}
	b, _ := newTestBoard(t, src)

	ch, unsubscribe := b.Subscribe()
	require.NoError(t, b.Refresh(context.Background()))

	select {
	case snap := <-ch:
		assert.Len(t, snap.Coins, 2)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)

	// publishing after unsubscribe must not panic
	require.NoError(t, b.Refresh(context.Background()))
}

func TestSubscribeKeepsLatest(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(1)}
	b, _ := newTestBoard(t, src)
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	require.NoError(t, b.Refresh(context.Background()))
	src.mu.Lock()
	src.coins = sampleCoins(4)
	src.mu.Unlock()
	require.NoError(t, b.Refresh(context.Background()))

	snap := <-ch
	assert.Len(t, snap.Coins, 4)
}

func TestRunPollsUntilCancelled(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(2)}
	b := New(src, nil, Options{PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	assert.Eventually(t, func() bool { return src.callCount() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	after := src.callCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, src.callCount())
	assert.Equal(t, 1, src.globalCalls)
}

func TestRunSurvivesErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("down")}
	b := New(src, nil, Options{PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	require.NoError(t, b.Run(ctx))
	assert.GreaterOrEqual(t, src.callCount(), 2)
	assert.Empty(t, b.Coins())
}
