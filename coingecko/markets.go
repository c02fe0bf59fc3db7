package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rustyeddy/coinboard/market"
)

const (
	// DefaultCurrency is the quote currency for every request.
	DefaultCurrency = "usd"
	// DefaultPerPage is the coin list length the dashboard asks for.
	DefaultPerPage = 100
	// MaxPerPage is the largest page the API serves.
	MaxPerPage = 250
)

// MarketsRequest selects a page of the market cap ordered coin list.
type MarketsRequest struct {
	Currency string // default usd
	PerPage  int    // default 100, max 250
	Page     int    // 1-based, default 1
}

type apiMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	MarketCapRank            *int     `json:"market_cap_rank"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	SparklineIn7d            *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// Markets fetches one page of coin summaries ordered by market cap.
func (c *Client) Markets(ctx context.Context, req MarketsRequest) ([]market.CoinSummary, error) {
	const op = "markets"

	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}
	if req.PerPage == 0 {
		req.PerPage = DefaultPerPage
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PerPage < 0 || req.PerPage > MaxPerPage {
		return nil, &FetchError{Op: op, Err: &ValidationError{Field: "per_page", Reason: fmt.Sprintf("must be between 1 and %d", MaxPerPage)}}
	}
	if req.Page < 0 {
		return nil, &FetchError{Op: op, Err: &ValidationError{Field: "page", Reason: "must be positive"}}
	}

	params := url.Values{}
	params.Set("vs_currency", req.Currency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(req.PerPage))
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("sparkline", "true")
	params.Set("price_change_percentage", "24h")

	var rows []apiMarket
	if err := c.getJSON(ctx, op, "", "/coins/markets", params, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, &FetchError{Op: op, Err: parseErrorf("expected a JSON array")}
	}

	coins := make([]market.CoinSummary, 0, len(rows))
	for i, r := range rows {
		if r.ID == "" {
			return nil, &FetchError{Op: op, Err: parseErrorf("row %d has no id", i)}
		}
		coin := market.CoinSummary{
			ID:             r.ID,
			Name:           r.Name,
			Symbol:         r.Symbol,
			Image:          r.Image,
			CurrentPrice:   deref(r.CurrentPrice),
			MarketCap:      deref(r.MarketCap),
			PriceChange24h: deref(r.PriceChangePercentage24h),
		}
		if r.MarketCapRank != nil {
			coin.MarketCapRank = *r.MarketCapRank
		}
		if r.SparklineIn7d != nil {
			coin.Sparkline7d = r.SparklineIn7d.Price
		}
		coins = append(coins, coin)
	}

	c.logger.Debug().Int("count", len(coins)).Int("page", req.Page).Msg("fetched markets")
	return coins, nil
}

type apiGlobal struct {
	Data *struct {
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
		TotalVolume         map[string]float64 `json:"total_volume"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

// Global fetches market wide totals.
func (c *Client) Global(ctx context.Context) (market.GlobalStats, error) {
	const op = "global"

	var resp apiGlobal
	if err := c.getJSON(ctx, op, "", "/global", nil, &resp); err != nil {
		return market.GlobalStats{}, err
	}
	if resp.Data == nil {
		return market.GlobalStats{}, &FetchError{Op: op, Err: parseErrorf("missing data object")}
	}

	d := resp.Data
	mcap, ok := d.TotalMarketCap["usd"]
	if !ok {
		return market.GlobalStats{}, &FetchError{Op: op, Err: parseErrorf("missing total_market_cap.usd")}
	}
	vol, ok := d.TotalVolume["usd"]
	if !ok {
		return market.GlobalStats{}, &FetchError{Op: op, Err: parseErrorf("missing total_volume.usd")}
	}

	return market.GlobalStats{
		TotalMarketCapUSD: mcap,
		BTCDominance:      d.MarketCapPercentage["btc"],
		TotalVolumeUSD:    vol,
	}, nil
}

type usdValue struct {
	USD *float64 `json:"usd"`
}

type apiCoin struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description struct {
		EN string `json:"en"`
	} `json:"description"`
	MarketData *struct {
		CurrentPrice      usdValue `json:"current_price"`
		MarketCap         usdValue `json:"market_cap"`
		High24h           usdValue `json:"high_24h"`
		Low24h            usdValue `json:"low_24h"`
		CirculatingSupply *float64 `json:"circulating_supply"`
		TotalSupply       *float64 `json:"total_supply"`
	} `json:"market_data"`
}

// Coin fetches the detail page data for one coin.
func (c *Client) Coin(ctx context.Context, id string) (market.CoinDetail, error) {
	const op = "coin"

	raw := id
	id, err := validateID(raw)
	if err != nil {
		return market.CoinDetail{}, &FetchError{Op: op, CoinID: raw, Err: err}
	}

	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")

	var resp apiCoin
	if err := c.getJSON(ctx, op, id, "/coins/"+url.PathEscape(id), params, &resp); err != nil {
		return market.CoinDetail{}, err
	}
	if resp.Name == "" {
		return market.CoinDetail{}, &FetchError{Op: op, CoinID: id, Err: parseErrorf("missing name")}
	}
	md := resp.MarketData
	if md == nil || md.MarketCap.USD == nil || md.CurrentPrice.USD == nil {
		return market.CoinDetail{}, &FetchError{Op: op, CoinID: id, Err: parseErrorf("missing market_data usd values")}
	}

	detail := market.CoinDetail{
		ID:                resp.ID,
		Name:              resp.Name,
		Symbol:            resp.Symbol,
		Description:       resp.Description.EN,
		CurrentPrice:      *md.CurrentPrice.USD,
		MarketCap:         *md.MarketCap.USD,
		High24h:           deref(md.High24h.USD),
		Low24h:            deref(md.Low24h.USD),
		CirculatingSupply: deref(md.CirculatingSupply),
		TotalSupply:       md.TotalSupply,
	}
	if detail.ID == "" {
		detail.ID = id
	}
	return detail, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
