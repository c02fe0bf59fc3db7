package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/coinboard/market"
)

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestMatchName(t *testing.T) {
	coins := []market.CoinSummary{
		{ID: "bitcoin", Name: "Bitcoin"},
		{ID: "bitcoin-cash", Name: "Bitcoin Cash"},
		{ID: "ethereum", Name: "Ethereum"},
	}

	got := MatchName(coins, "BIT", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "bitcoin", got[0].ID)
	assert.Equal(t, "bitcoin-cash", got[1].ID)

	assert.Empty(t, MatchName(coins, "", 0))
	assert.Empty(t, MatchName(coins, "   ", 0))
	assert.Empty(t, MatchName(coins, "doge", 0))
	assert.Len(t, MatchName(coins, "e", 1), 1)
}

func TestSearchLimit(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(25)}
	b, _ := newTestBoard(t, src)
	require.NoError(t, b.Refresh(context.Background()))

	got := b.Search("coin")
	require.Len(t, got, SearchLimit)
	assert.Equal(t, "coin-01", got[0].ID)
	assert.Equal(t, "coin-10", got[9].ID)

	assert.Empty(t, b.Search(""))
}

func TestPageMath(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 3, PageCount(25, 10))

	s, e := PageBounds(25, 3, 10)
	assert.Equal(t, 20, s)
	assert.Equal(t, 25, e)

	s, e = PageBounds(25, 4, 10)
	assert.Equal(t, s, e)

	s, e = PageBounds(25, 0, 10)
	assert.Equal(t, 0, s)
	assert.Equal(t, 0, e)
}

func TestQueryPagination(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(25)}
	b, _ := newTestBoard(t, src)
	require.NoError(t, b.Refresh(context.Background()))

	p := b.Query(Query{})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 25, p.Total)
	assert.Len(t, p.Items, 10)

	p = b.Query(Query{Page: 3})
	assert.Equal(t, []string{"coin-21", "coin-22", "coin-23", "coin-24", "coin-25"}, ids(p.Items))

	p = b.Query(Query{Page: 7})
	assert.Equal(t, 7, p.Page)
	assert.Equal(t, 3, p.Pages)
	assert.Empty(t, p.Items)
}

func TestSortCoins(t *testing.T) {
	coins := []market.CoinSummary{
		{ID: "b", Name: "beta", CurrentPrice: 2, MarketCapRank: 2, MarketCap: 20, PriceChange24h: -1},
		{ID: "x", Name: "unranked", CurrentPrice: 2, MarketCapRank: 0},
		{ID: "a", Name: "Alpha", CurrentPrice: 2, MarketCapRank: 1, MarketCap: 30, PriceChange24h: 5},
		{ID: "c", Name: "gamma", CurrentPrice: 1, MarketCapRank: 3, MarketCap: 10, PriceChange24h: 0},
	}

	order := func(cs []market.CoinSummary) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c", "x"}, order(SortCoins(coins, SortRank, false)))
	assert.Equal(t, []string{"c", "b", "a", "x"}, order(SortCoins(coins, SortRank, true)))
	assert.Equal(t, []string{"a", "b", "c", "x"}, order(SortCoins(coins, SortName, false)))
	assert.Equal(t, []string{"x", "c", "b", "a"}, order(SortCoins(coins, SortMarketCap, false)))
	assert.Equal(t, []string{"a", "x", "c", "b"}, order(SortCoins(coins, SortChange, true)))

	// equal prices keep their input order
	assert.Equal(t, []string{"c", "b", "x", "a"}, order(SortCoins(coins, SortPrice, false)))

	assert.Equal(t, "b", coins[0].ID, "input must not be reordered")
}

func TestParseSortKeyAndOrder(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortRank, k)

	k, err = ParseSortKey(" MarketCap ")
	require.NoError(t, err)
	assert.Equal(t, SortMarketCap, k)

	_, err = ParseSortKey("volume")
	assert.Error(t, err)

	desc, err := ParseOrder("DESC")
	require.NoError(t, err)
	assert.True(t, desc)
	_, err = ParseOrder("sideways")
	assert.Error(t, err)

	assert.Equal(t, SortName, SortRank.Next())
	assert.Equal(t, SortRank, SortMarketCap.Next())
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{coins: sampleCoins(5)}
	b, prefs := newTestBoard(t, src)
	require.NoError(t, b.Refresh(ctx))

	on, err := b.ToggleFavorite(ctx, "coin-04")
	require.NoError(t, err)
	assert.True(t, on)
	_, err = b.ToggleFavorite(ctx, "coin-02")
	require.NoError(t, err)
	assert.True(t, prefs.IsFavorite("coin-02"))

	p := b.Query(Query{FavoritesOnly: true})
	assert.Equal(t, []string{"coin-02", "coin-04"}, ids(p.Items))
	assert.Equal(t, 1, p.Pages)
	for _, it := range p.Items {
		assert.True(t, it.Favorite)
	}

	on, err = b.ToggleFavorite(ctx, "coin-04")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []string{"coin-02"}, ids(b.Query(Query{FavoritesOnly: true}).Items))
}

func TestToggleFavoriteWithoutSettings(t *testing.T) {
	b := New(&fakeSource{}, nil, Options{})
	_, err := b.ToggleFavorite(context.Background(), "bitcoin")
	assert.Error(t, err)
	assert.Empty(t, b.Query(Query{FavoritesOnly: true}).Items)
}

func TestTopByMarketCap(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(15)}
	b, _ := newTestBoard(t, src)
	require.NoError(t, b.Refresh(context.Background()))

	top := b.TopByMarketCap(DefaultTop)
	require.Len(t, top, 10)
	assert.Equal(t, "coin-01", top[0].ID)
	assert.Len(t, b.TopByMarketCap(50), 15)
	assert.Empty(t, b.TopByMarketCap(-1))
}

func TestQuerySearchAndSort(t *testing.T) {
	src := &fakeSource{coins: sampleCoins(25)}
	b, _ := newTestBoard(t, src)
	require.NoError(t, b.Refresh(context.Background()))

	p := b.Query(Query{Search: "coin 1", Sort: SortPrice})
	assert.Equal(t, 10, p.Total)
	assert.Equal(t, "coin-19", p.Items[0].ID)
}
