package market

// CoinSummary is one row of the dashboard coin list.
type CoinSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"`
	Image          string    `json:"image"`
	CurrentPrice   float64   `json:"current_price"`
	MarketCap      float64   `json:"market_cap"`
	MarketCapRank  int       `json:"market_cap_rank"` // 0 when unranked
	PriceChange24h float64   `json:"price_change_percentage_24h"`
	Sparkline7d    []float64 `json:"sparkline_in_7d,omitempty"`
}

// Ranked reports whether the coin carries a market cap rank.
func (c CoinSummary) Ranked() bool {
	return c.MarketCapRank > 0
}

// GlobalStats are the market wide totals shown above the coin list.
type GlobalStats struct {
	TotalMarketCapUSD float64 `json:"total_market_cap_usd"`
	BTCDominance      float64 `json:"btc_dominance"`
	TotalVolumeUSD    float64 `json:"total_volume_usd"`
}

// CoinDetail is the data shown on a coin's detail page. Prices are USD.
type CoinDetail struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	Description       string   `json:"description"`
	CurrentPrice      float64  `json:"current_price"`
	MarketCap         float64  `json:"market_cap"`
	High24h           float64  `json:"high_24h"`
	Low24h            float64  `json:"low_24h"`
	CirculatingSupply float64  `json:"circulating_supply"`
	TotalSupply       *float64 `json:"total_supply"` // nil for uncapped supply
}
