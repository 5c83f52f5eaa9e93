package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughPoints is returned when no series has two plottable samples.
var ErrNotEnoughPoints = errors.New("chart needs at least two numeric samples in one series")

const (
	defaultWidth  = 1280
	defaultHeight = 640
)

// RenderOptions controls the PNG output.
type RenderOptions struct {
	Title  string
	Width  int
	Height int
}

func (o RenderOptions) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// RenderPNG draws the setup as a PNG line chart, used as the report image in
// exports. Samples are placed by row index against the shared waypoint labels.
func RenderPNG(w io.Writer, setup Setup, opts RenderOptions) error {
	var series []gochart.Series
	maxX, maxY := 0.0, 0.0
	for _, s := range setup.Datasets {
		xs := make([]float64, 0, len(s.Data))
		ys := make([]float64, 0, len(s.Data))
		for i, v := range s.Data {
			if v == nil {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, *v)
		}
		if len(xs) < 2 {
			continue
		}
		maxX = math.Max(maxX, xs[len(xs)-1])
		for _, y := range ys {
			maxY = math.Max(maxY, y)
		}
		col := hexColor(s.BorderColor)
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: col,
				StrokeWidth: float64(s.BorderWidth),
				DotColor:    col,
				DotWidth:    float64(s.PointRadius),
			},
		})
	}
	if len(series) == 0 || maxX <= 0 {
		return ErrNotEnoughPoints
	}

	if setup.ReferenceLine != nil {
		ref := *setup.ReferenceLine
		maxY = math.Max(maxY, ref)
		series = append(series, gochart.ContinuousSeries{
			Name:    fmt.Sprintf("%g %s", ref, setup.MetricLabel),
			XValues: []float64{0, maxX},
			YValues: []float64{ref, ref},
			Style: gochart.Style{
				StrokeColor:     drawing.ColorFromHex("e60000"),
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}

	var yRange *gochart.ContinuousRange
	if maxY > 0 {
		yRange = &gochart.ContinuousRange{Min: 0, Max: maxY * 1.05}
	}

	labels := setup.Labels
	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = setup.MetricLabel
	}
	width, height := opts.size()
	ch := gochart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name: "Waypoint",
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				i := int(math.Round(f))
				if i < 0 || i >= len(labels) {
					return ""
				}
				return labels[i]
			},
		},
		YAxis:  gochart.YAxis{Name: setup.MetricLabel, Range: yRange},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("unable to render %s chart: %w", setup.Metric, err)
	}
	return nil
}
