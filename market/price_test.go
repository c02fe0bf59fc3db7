package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPricePointTime(t *testing.T) {
	p := PricePoint{TimestampMillis: 1700000000123, Price: 1}
	want := time.Date(2023, 11, 14, 22, 13, 20, 123_000_000, time.UTC)
	assert.True(t, want.Equal(p.Time()))
	assert.Equal(t, time.UTC, p.Time().Location())
}

func TestPrices(t *testing.T) {
	pts := []PricePoint{{1, 10.5}, {2, 11}, {3, 9.25}}
	assert.Equal(t, []float64{10.5, 11, 9.25}, Prices(pts))
	assert.Empty(t, Prices(nil))
}

func TestRanked(t *testing.T) {
	assert.True(t, CoinSummary{MarketCapRank: 1}.Ranked())
	assert.False(t, CoinSummary{}.Ranked())
}
