package chart

import (
	"fmt"
	"strings"
)

// RangeLabel is a user facing chart range.
type RangeLabel string

const (
	Range1D  RangeLabel = "1D"
	Range7D  RangeLabel = "7D"
	Range30D RangeLabel = "30D"
	Range6M  RangeLabel = "6M"
	Range1Y  RangeLabel = "1Y"
	RangeAll RangeLabel = "ALL"
)

// DefaultRange is the range a detail view opens with.
const DefaultRange = Range7D

// DayToken is the value sent as the days parameter of the market chart
// endpoint: a positive day count or MaxHistory.
type DayToken string

// MaxHistory asks for the entire available history.
const MaxHistory DayToken = "max"

var rangeOrder = []RangeLabel{Range1D, Range7D, Range30D, Range6M, Range1Y, RangeAll}

var rangeTokens = map[RangeLabel]DayToken{
	Range1D:  "1",
	Range7D:  "7",
	Range30D: "30",
	Range6M:  "180",
	Range1Y:  "365",
	RangeAll: MaxHistory,
}

// Ranges lists every range label in display order.
func Ranges() []RangeLabel {
	out := make([]RangeLabel, len(rangeOrder))
	copy(out, rangeOrder)
	return out
}

// Resolve maps a range label to its day token. Labels must come from the
// fixed set; anything else is a programming error and panics. Use ParseRange
// for untrusted input.
func Resolve(label RangeLabel) DayToken {
	tok, ok := rangeTokens[label]
	if !ok {
		panic(fmt.Sprintf("chart: unknown range label %q", string(label)))
	}
	return tok
}

// ParseRange validates external input (flags, query strings, key presses)
// and returns the matching label. Matching ignores case and surrounding space.
func ParseRange(s string) (RangeLabel, error) {
	label := RangeLabel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := rangeTokens[label]; !ok {
		names := make([]string, len(rangeOrder))
		for i, r := range rangeOrder {
			names[i] = string(r)
		}
		return "", fmt.Errorf("unknown range %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return label, nil
}

// Resolution selects how timestamps are labelled.
type Resolution int

const (
	// Fine labels points with the local hour and minute.
	Fine Resolution = iota
	// Coarse labels points with the local calendar date.
	Coarse
)

func (r Resolution) String() string {
	switch r {
	case Fine:
		return "fine"
	case Coarse:
		return "coarse"
	default:
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
}

// ResolutionFor returns Fine for the intraday ranges (1D, 7D) and Coarse for
// everything longer.
func ResolutionFor(label RangeLabel) Resolution {
	switch label {
	case Range1D, Range7D:
		return Fine
	default:
		return Coarse
	}
}
