package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/coinboard/chart"
)

var bars = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws prices as one row of block characters, width wide at
// most. dom, when it has width, fixes the vertical scale.
func Sparkline(prices []float64, width int, dom *chart.Domain) string {
	if len(prices) == 0 || width <= 0 {
		return ""
	}

	samples := prices
	if len(prices) > width {
		samples = make([]float64, width)
		for i := range samples {
			samples[i] = prices[i*(len(prices)-1)/max(width-1, 1)]
		}
	}

	lo, hi := samples[0], samples[0]
	if dom != nil && dom.Width() > 0 {
		lo, hi = dom.Low, dom.High
	} else {
		for _, p := range samples {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}

	var b strings.Builder
	top := len(bars) - 1
	for _, p := range samples {
		level := top / 2
		if hi > lo {
			level = int(math.Round((p - lo) / (hi - lo) * float64(top)))
		}
		level = min(max(level, 0), top)
		b.WriteRune(bars[level])
	}
	return b.String()
}

// formatPrice keeps cents for prices above a dollar and six places below.
func formatPrice(p float64) string {
	d := decimal.NewFromFloat(p)
	if math.Abs(p) >= 1 {
		return "$" + d.StringFixed(2)
	}
	return "$" + d.StringFixed(6)
}

// formatLarge abbreviates market caps and volumes.
func formatLarge(v float64) string {
	units := []struct {
		size   float64
		suffix string
	}{{1e12, "T"}, {1e9, "B"}, {1e6, "M"}, {1e3, "K"}}

	for _, u := range units {
		if math.Abs(v) >= u.size {
			return "$" + decimal.NewFromFloat(v/u.size).StringFixed(2) + u.suffix
		}
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
