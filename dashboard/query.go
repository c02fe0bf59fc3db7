package dashboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rustyeddy/coinboard/market"
)

const (
	// SearchLimit caps the number of search suggestions.
	SearchLimit = 10
	// DefaultPageSize is the number of rows on one page.
	DefaultPageSize = 10
	// DefaultTop is the size of the top by market cap strip.
	DefaultTop = 10
)

// SortKey names a coin list column.
type SortKey string

const (
	SortRank      SortKey = "rank"
	SortName      SortKey = "name"
	SortPrice     SortKey = "price"
	SortChange    SortKey = "change24h"
	SortMarketCap SortKey = "marketcap"
)

var sortKeys = []SortKey{SortRank, SortName, SortPrice, SortChange, SortMarketCap}

// SortKeys lists the sort keys in the order the UI cycles through them.
func SortKeys() []SortKey {
	return slices.Clone(sortKeys)
}

// ParseSortKey validates a sort key. Empty means SortRank.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortRank, nil
	}
	k := SortKey(s)
	if !slices.Contains(sortKeys, k) {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return k, nil
}

// Next returns the sort key after k, wrapping around.
func (k SortKey) Next() SortKey {
	i := slices.Index(sortKeys, k)
	return sortKeys[(i+1)%len(sortKeys)]
}

// ParseOrder accepts "asc" or "desc"; empty means ascending.
func ParseOrder(s string) (desc bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return false, nil
	case "desc":
		return true, nil
	default:
		return false, fmt.Errorf("unknown sort order %q (want asc|desc)", s)
	}
}

// Item is a coin list row with its favorite flag.
type Item struct {
	market.CoinSummary
	Favorite bool `json:"favorite"`
}

// Query selects one page of the coin list.
type Query struct {
	Search        string  // substring filter on the name, no limit
	Sort          SortKey // default SortRank
	Desc          bool
	FavoritesOnly bool
	Page          int // 1-based, default 1
}

// Page is one page of query results. Page is the requested page even when
// it lies past the last one; Items is then empty.
type Page struct {
	Items    []Item `json:"items"`
	Page     int    `json:"page"`
	Pages    int    `json:"pages"`
	PageSize int    `json:"pageSize"`
	Total    int    `json:"total"`
}

// MatchName filters coins whose name contains term, ignoring case, keeping
// list order. limit <= 0 means no limit. An empty term matches nothing.
func MatchName(coins []market.CoinSummary, term string, limit int) []market.CoinSummary {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []market.CoinSummary{}
	if term == "" {
		return out
	}
	for _, c := range coins {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// SortCoins returns a sorted copy of coins. The sort is stable. Unranked
// coins always come last when sorting by rank.
func SortCoins(coins []market.CoinSummary, key SortKey, desc bool) []market.CoinSummary {
	out := slices.Clone(coins)
	dir := 1
	if desc {
		dir = -1
	}

	slices.SortStableFunc(out, func(a, b market.CoinSummary) int {
		switch key {
		case SortName:
			return dir * cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortPrice:
			return dir * cmp.Compare(a.CurrentPrice, b.CurrentPrice)
		case SortChange:
			return dir * cmp.Compare(a.PriceChange24h, b.PriceChange24h)
		case SortMarketCap:
			return dir * cmp.Compare(a.MarketCap, b.MarketCap)
		default:
			switch {
			case a.Ranked() && !b.Ranked():
				return -1
			case !a.Ranked() && b.Ranked():
				return 1
			case !a.Ranked() && !b.Ranked():
				return 0
			}
			return dir * cmp.Compare(a.MarketCapRank, b.MarketCapRank)
		}
	})
	return out
}

// PageCount is ceil(total/size).
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageBounds returns the slice bounds of a 1-based page. Pages past the end
// give an empty range.
func PageBounds(total, page, size int) (start, end int) {
	if page < 1 || size <= 0 {
		return 0, 0
	}
	start = (page - 1) * size
	if start >= total {
		return total, total
	}
	return start, min(start+size, total)
}

func (b *Board) items(coins []market.CoinSummary) []Item {
	var favs []string
	if b.prefs != nil {
		favs = b.prefs.Favorites()
	}
	out := make([]Item, len(coins))
	for i, c := range coins {
		out[i] = Item{CoinSummary: c, Favorite: slices.Contains(favs, c.ID)}
	}
	return out
}

// Search returns up to SearchLimit coins whose name contains term.
func (b *Board) Search(term string) []Item {
	return b.items(MatchName(b.Coins(), term, SearchLimit))
}

// Query filters, sorts and paginates the coin list.
func (b *Board) Query(q Query) Page {
	coins := b.Coins()

	if q.FavoritesOnly {
		favs := []string{}
		if b.prefs != nil {
			favs = b.prefs.Favorites()
		}
		coins = slices.DeleteFunc(coins, func(c market.CoinSummary) bool {
			return !slices.Contains(favs, c.ID)
		})
	}
	if q.Search != "" {
		coins = MatchName(coins, q.Search, 0)
	}
	if q.Sort == "" {
		q.Sort = SortRank
	}
	coins = SortCoins(coins, q.Sort, q.Desc)

	if q.Page < 1 {
		q.Page = 1
	}
	size := b.opts.PageSize
	start, end := PageBounds(len(coins), q.Page, size)

	return Page{
		Items:    b.items(coins[start:end]),
		Page:     q.Page,
		Pages:    PageCount(len(coins), size),
		PageSize: size,
		Total:    len(coins),
	}
}

// TopByMarketCap returns the first n coins of the list, which is already in
// market cap order.
func (b *Board) TopByMarketCap(n int) []Item {
	coins := b.Coins()
	if n < 0 {
		n = 0
	}
	if n < len(coins) {
		coins = coins[:n]
	}
	return b.items(coins)
}

// ToggleFavorite flips the favorite flag of a coin and returns the new state.
func (b *Board) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if b.prefs == nil {
		return false, errors.New("dashboard: no settings attached")
	}
	on, err := b.prefs.ToggleFavorite(ctx, id)
	if err != nil {
		b.logger.Error().Err(err).Str("coin", id).Msg("toggle favorite")
		return on, err
	}
	b.publish()
	return on, nil
}
