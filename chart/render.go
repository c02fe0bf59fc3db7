package chart

import (
	"fmt"
	"io"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderOptions controls the PNG produced by Render.
type RenderOptions struct {
	Width    int
	Height   int
	DarkMode bool
	// MaxTicks caps the number of labelled x axis ticks.
	MaxTicks int
}

// DefaultRenderOptions returns a 960x480 light chart with six x labels.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: 960, Height: 480, MaxTicks: 6}
}

type palette struct {
	background drawing.Color
	foreground drawing.Color
	line       drawing.Color
}

var (
	lightPalette = palette{
		background: drawing.ColorFromHex("ffffff"),
		foreground: drawing.ColorFromHex("000000"),
		line:       drawing.ColorFromHex("3b82f6"),
	}
	darkPalette = palette{
		background: drawing.ColorFromHex("141414"),
		foreground: drawing.ColorFromHex("e0e0e0"),
		line:       drawing.ColorFromHex("00c8ff"),
	}
)

// Render draws points as a PNG line chart. dom fixes the y axis; when it is
// nil or has no width the y range is derived from the data.
func Render(w io.Writer, title string, points []Point, dom *Domain, opts RenderOptions) error {
	if len(points) == 0 {
		return ErrEmptySeries
	}
	def := DefaultRenderOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.MaxTicks <= 1 {
		opts.MaxTicks = def.MaxTicks
	}

	pal := lightPalette
	if opts.DarkMode {
		pal = darkPalette
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Price
	}
	// go-chart refuses a zero width x range, so a lone sample becomes a
	// flat segment.
	if len(points) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
	}

	axisStyle := gochart.Style{FontColor: pal.foreground, StrokeColor: pal.foreground}

	c := gochart.Chart{
		Title:      title,
		TitleStyle: gochart.Style{FontColor: pal.foreground},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{
			FillColor: pal.background,
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24},
		},
		Canvas: gochart.Style{FillColor: pal.background},
		XAxis: gochart.XAxis{
			Style: axisStyle,
			Ticks: xTicks(points, opts.MaxTicks),
		},
		YAxis: gochart.YAxis{
			Style:          axisStyle,
			Range:          yRange(points, dom),
			ValueFormatter: priceFormatter,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: pal.line,
					StrokeWidth: 2,
				},
			},
		},
	}

	if err := c.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func yRange(points []Point, dom *Domain) gochart.Range {
	if dom != nil && dom.Width() > 0 {
		return &gochart.ContinuousRange{Min: dom.Low, Max: dom.High}
	}
	d, err := ComputeDomain(points)
	if err == nil && d.Width() > 0 {
		return &gochart.ContinuousRange{Min: d.Low, Max: d.High}
	}
	// flat series at zero
	return &gochart.ContinuousRange{Min: -1, Max: 1}
}

// xTicks picks at most max evenly spaced point labels.
func xTicks(points []Point, max int) []gochart.Tick {
	n := len(points)
	if n == 1 {
		return []gochart.Tick{{Value: 0, Label: points[0].Label}, {Value: 1, Label: ""}}
	}
	if max > n {
		max = n
	}

	ticks := make([]gochart.Tick, 0, max)
	last := -1
	for i := 0; i < max; i++ {
		idx := i * (n - 1) / (max - 1)
		if idx == last {
			continue
		}
		last = idx
		ticks = append(ticks, gochart.Tick{Value: float64(idx), Label: points[idx].Label})
	}
	return ticks
}

func priceFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', 6, 64)
	}
	return fmt.Sprintf("%v", v)
}
