package coingecko

import (
	"context"
	"net/url"

	"github.com/rustyeddy/coinboard/chart"
	"github.com/rustyeddy/coinboard/market"
)

type marketChartResponse struct {
	Prices [][]*float64 `json:"prices"`
}

// MarketChart fetches the USD price history of a coin for the given day
// token. The result is all or nothing: a single malformed sample fails the
// whole call. No retry happens unless Options.MaxRetries is set.
func (c *Client) MarketChart(ctx context.Context, coinID string, days chart.DayToken) ([]market.PricePoint, error) {
	const op = "market_chart"

	id, err := validateID(coinID)
	if err != nil {
		return nil, &FetchError{Op: op, CoinID: coinID, Err: err}
	}
	if days == "" {
		return nil, &FetchError{Op: op, CoinID: id, Err: &ValidationError{Field: "days", Reason: "must not be empty"}}
	}

	params := url.Values{}
	params.Set("vs_currency", DefaultCurrency)
	params.Set("days", string(days))

	var resp marketChartResponse
	if err := c.getJSON(ctx, op, id, "/coins/"+url.PathEscape(id)+"/market_chart", params, &resp); err != nil {
		return nil, err
	}
	if resp.Prices == nil {
		return nil, &FetchError{Op: op, CoinID: id, Err: parseErrorf("missing prices")}
	}

	points := make([]market.PricePoint, 0, len(resp.Prices))
	for i, pair := range resp.Prices {
		if len(pair) != 2 || pair[0] == nil || pair[1] == nil {
			return nil, &FetchError{Op: op, CoinID: id, Err: parseErrorf("prices[%d] is not a [timestamp, price] pair", i)}
		}
		if *pair[1] < 0 {
			return nil, &FetchError{Op: op, CoinID: id, Err: parseErrorf("prices[%d] has negative price %v", i, *pair[1])}
		}
		points = append(points, market.PricePoint{
			TimestampMillis: int64(*pair[0]),
			Price:           *pair[1],
		})
	}

	c.logger.Debug().Str("coin", id).Str("days", string(days)).Int("count", len(points)).Msg("fetched market chart")
	return points, nil
}
