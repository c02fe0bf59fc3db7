package market

import "time"

// PricePoint is one sample of a coin's price history as delivered by the
// market chart endpoint. Samples arrive in ascending time order; timestamps
// are not guaranteed to be unique.
type PricePoint struct {
	TimestampMillis int64   `json:"timestamp"`
	Price           float64 `json:"price"`
}

// Time returns the sample time in UTC.
func (p PricePoint) Time() time.Time {
	return time.UnixMilli(p.TimestampMillis).UTC()
}

// Prices returns just the price column of a series.
func Prices(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}
