// Package chart builds the line chart shown for a selected metric: the shared
// waypoint axis, one styled series per dataset, and a PNG rendering of it.
package chart

import (
	"strings"

	"github.com/mwiater/perfview/internal/perflog"
	"github.com/samber/lo"
)

// Style is the fixed look of one series.
type Style struct {
	Border     string `json:"borderColor"`
	Background string `json:"backgroundColor"`
	Point      string `json:"pointStyle"`
}

// palette cycles by dataset index.
var palette = []Style{
	{Border: "#e50808", Background: "#e5080880", Point: "circle"},
	{Border: "#087aec", Background: "#087aec80", Point: "triangle"},
	{Border: "#fad000", Background: "#fad00080", Point: "rectRot"},
	{Border: "#29be0b", Background: "#29be0b80", Point: "rect"},
	{Border: "#170101", Background: "#17010180", Point: "star"},
}

// StyleFor returns the palette entry for dataset index i.
func StyleFor(i int) Style {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// PointInfo carries the tooltip details of one sample.
type PointInfo struct {
	Waypoint    string `json:"waypoint"`
	Coordinates string `json:"coordinates"`
	Rotation    string `json:"rotation"`
	Teleport    string `json:"teleport"`
}

// Series is one dataset plotted against the shared axis.
type Series struct {
	Key              string      `json:"key"`
	Label            string      `json:"label"`
	Data             []*float64  `json:"data"`
	BorderColor      string      `json:"borderColor"`
	BackgroundColor  string      `json:"backgroundColor"`
	PointStyle       string      `json:"pointStyle"`
	PointRadius      int         `json:"pointRadius"`
	PointHoverRadius int         `json:"pointHoverRadius"`
	BorderWidth      int         `json:"borderWidth"`
	Points           []PointInfo `json:"points"`
}

// Setup is everything a charting front end needs to draw one metric.
type Setup struct {
	Metric        perflog.Metric `json:"metric"`
	MetricLabel   string         `json:"metricLabel"`
	Labels        []string       `json:"labels"`
	Datasets      []Series       `json:"datasets"`
	ReferenceLine *float64       `json:"referenceLine,omitempty"`
	StepSize      float64        `json:"stepSize,omitempty"`
}

// FPSReference is the frame rate highlighted on the FPS chart.
const FPSReference = 60.0

// Build assembles the chart for metric m. legend maps file names to
// user-chosen display labels; missing or blank entries fall back to the file name.
func Build(c *perflog.Collection, m perflog.Metric, legend map[string]string) Setup {
	datasets := c.Datasets()
	setup := Setup{
		Metric:      m,
		MetricLabel: m.Label(),
		Labels:      Labels(datasets),
		Datasets:    make([]Series, 0, len(datasets)),
	}
	if m == perflog.FPSMeasure {
		ref := FPSReference
		setup.ReferenceLine = &ref
		setup.StepSize = 5
	}

	for i, ds := range datasets {
		style := StyleFor(i)
		series := Series{
			Key:              ds.Name(),
			Label:            LegendLabel(legend, ds.Name()),
			Data:             make([]*float64, ds.Rows()),
			BorderColor:      style.Border,
			BackgroundColor:  style.Background,
			PointStyle:       style.Point,
			PointRadius:      2,
			PointHoverRadius: 10,
			BorderWidth:      1,
			Points:           make([]PointInfo, ds.Rows()),
		}
		for row := 0; row < ds.Rows(); row++ {
			if f, ok := ds.Value(m, row).Float(); ok {
				v := f
				series.Data[row] = &v
			}
			if p, ok := ds.Point(row); ok {
				series.Points[row] = PointInfo{
					Waypoint:    p.Waypoint,
					Coordinates: p.Coordinates(),
					Rotation:    p.RotationText(),
					Teleport:    p.TeleportCommand(),
				}
			}
		}
		setup.Datasets = append(setup.Datasets, series)
	}
	return setup
}

// Labels returns the waypoint sequence of the longest dataset; the earliest
// dataset wins a tie.
func Labels(datasets []*perflog.Dataset) []string {
	if len(datasets) == 0 {
		return []string{}
	}
	longest := lo.MaxBy(datasets, func(a, b *perflog.Dataset) bool {
		return a.Rows() > b.Rows()
	})
	return longest.Waypoints()
}

// LegendLabel returns the display label for a dataset key.
func LegendLabel(legend map[string]string, key string) string {
	if label := strings.TrimSpace(legend[key]); label != "" {
		return label
	}
	return key
}
