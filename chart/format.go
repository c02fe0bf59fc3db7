package chart

import (
	"math"
	"time"

	"github.com/rustyeddy/coinboard/market"
	"github.com/shopspring/decimal"
)

const (
	// FineLayout is the HH:MM label used for intraday ranges.
	FineLayout = "15:04"
	// CoarseLayout is the calendar date label used for longer ranges.
	CoarseLayout = "2006-01-02"
	// PricePlaces is the number of decimals a formatted price keeps.
	PricePlaces = 4
)

// Point is a chart ready sample: a display label and a rounded price.
type Point struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Format relabels a raw series in the local time zone. See FormatIn.
func Format(points []market.PricePoint, mode Resolution) []Point {
	return FormatIn(points, mode, time.Local)
}

// FormatIn converts every raw sample into a Point labelled in loc. Order and
// length are preserved; nothing is merged or dropped. An empty input gives
// an empty, non-nil result.
func FormatIn(points []market.PricePoint, mode Resolution, loc *time.Location) []Point {
	if loc == nil {
		loc = time.Local
	}

	layout := FineLayout
	if mode == Coarse {
		layout = CoarseLayout
	}

	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{
			Label: p.Time().In(loc).Format(layout),
			Price: RoundPrice(p.Price),
		}
	}
	return out
}

// RoundPrice rounds half away from zero to PricePlaces decimals. The float is
// first converted to its shortest decimal form, so 1.00005 becomes 1.0001
// instead of falling foul of its binary representation.
func RoundPrice(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return p
	}
	f, _ := decimal.NewFromFloat(p).Round(PricePlaces).Float64()
	return f
}
