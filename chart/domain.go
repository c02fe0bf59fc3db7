package chart

import "errors"

// ErrEmptySeries is returned when a computation needs at least one point.
var ErrEmptySeries = errors.New("chart: empty series")

// Domain is the padded vertical range of a chart.
type Domain struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width is High - Low.
func (d Domain) Width() float64 {
	return d.High - d.Low
}

// ComputeDomain pads the price range of points by 10% of the range on each
// side. A flat series (including a single point) is padded by 5% of its price
// instead. Callers must skip the computation for an empty series.
func ComputeDomain(points []Point) (Domain, error) {
	if len(points) == 0 {
		return Domain{}, ErrEmptySeries
	}

	lo, hi := points[0].Price, points[0].Price
	for _, p := range points[1:] {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}

	var margin float64
	if rng := hi - lo; rng == 0 {
		margin = lo * 5 / 100
	} else {
		margin = rng / 10
	}

	return Domain{Low: lo - margin, High: hi + margin}, nil
}
