package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		label RangeLabel
		want  DayToken
	}{
		{Range1D, "1"},
		{Range7D, "7"},
		{Range30D, "30"},
		{Range6M, "180"},
		{Range1Y, "365"},
		{RangeAll, "max"},
	}

	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.label))
		})
	}
}

func TestResolveCoversEveryRange(t *testing.T) {
	for _, label := range Ranges() {
		assert.NotEmpty(t, Resolve(label), label)
	}
	assert.Len(t, Ranges(), 6)
	assert.Equal(t, MaxHistory, Resolve(RangeAll))
}

func TestResolveUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Resolve("2W") })
}

func TestRangesReturnsCopy(t *testing.T) {
	r := Ranges()
	r[0] = "XX"
	assert.Equal(t, Range1D, Ranges()[0])
}

func TestParseRange(t *testing.T) {
	label, err := ParseRange(" 7d ")
	require.NoError(t, err)
	assert.Equal(t, Range7D, label)

	label, err = ParseRange("all")
	require.NoError(t, err)
	assert.Equal(t, RangeAll, label)

	_, err = ParseRange("3D")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown range")
	assert.Contains(t, err.Error(), "1D, 7D, 30D, 6M, 1Y, ALL")
}

func TestResolutionFor(t *testing.T) {
	assert.Equal(t, Fine, ResolutionFor(Range1D))
	assert.Equal(t, Fine, ResolutionFor(Range7D))
	assert.Equal(t, Coarse, ResolutionFor(Range30D))
	assert.Equal(t, Coarse, ResolutionFor(Range6M))
	assert.Equal(t, Coarse, ResolutionFor(Range1Y))
	assert.Equal(t, Coarse, ResolutionFor(RangeAll))

	assert.Equal(t, "fine", Fine.String())
	assert.Equal(t, "coarse", Coarse.String())
}
