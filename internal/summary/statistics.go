// Package summary computes the fixed statistics table shown under the chart:
// one value per (statistic, dataset) pair plus a delta between the two most
// recently loaded datasets.
package summary

import (
	"math"
	"strconv"

	"github.com/mwiater/perfview/internal/perflog"
)

// FPSThreshold is the frame rate the "% above" statistic compares against.
const FPSThreshold = 60.0

// Direction states which way a change in a statistic is an improvement.
type Direction int

const (
	// HigherIsBetter marks statistics where growth is favourable (frame rate).
	HigherIsBetter Direction = iota
	// HigherIsWorse marks statistics where growth is unfavourable (timings, memory, load).
	HigherIsWorse
)

func (d Direction) String() string {
	if d == HigherIsBetter {
		return "higher-is-better"
	}
	return "higher-is-worse"
}

// MarshalText lets the direction travel as a readable string in JSON payloads.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Cell is one computed value. A blank cell has Valid false and empty Text.
type Cell struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
	Text  string  `json:"text"`
}

func blank() Cell { return Cell{} }

// rounded builds a cell displayed with two decimals; the stored value is
// rounded the same way so deltas see what the user sees.
func rounded(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return blank()
	}
	r := round2(v)
	return Cell{Value: r, Valid: true, Text: strconv.FormatFloat(r, 'f', 2, 64)}
}

// exact builds a cell displayed without rounding.
func exact(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return blank()
	}
	return Cell{Value: v, Valid: true, Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// maxFractional is the magnitude above which a float64 has no fractional
// digits left to round.
const maxFractional = 1e15

// round2 rounds half away from zero to two decimals and folds negative zero.
func round2(v float64) float64 {
	if math.Abs(v) >= maxFractional {
		return v
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// Func computes one statistic for one metric of a dataset.
type Func func(ds *perflog.Dataset, m perflog.Metric) Cell

// Statistic is one row of the summary table.
type Statistic struct {
	Name      string
	Metric    perflog.Metric
	Direction Direction
	Compute   Func
}

// statistics is the closed, ordered set of summary rows.
var statistics = []Statistic{
	{"% above 60 FPS", perflog.FPSMeasure, HigherIsBetter, PercentAbove(FPSThreshold)},
	{"AVG FPS", perflog.FPSMeasure, HigherIsBetter, Average},
	{"AVG Game Update", perflog.GameUpdate, HigherIsWorse, Average},
	{"AVG Render Measure", perflog.RenderMeasurer, HigherIsWorse, Average},
	{"AVG Frame Measure", perflog.FrameMeasurer, HigherIsWorse, Average},
	{"AVG VRAM, mb", perflog.VRAM, HigherIsWorse, Average},
	{"MAX VRAM, mb", perflog.VRAM, HigherIsWorse, Maximum},
	{"AVG GPU Utilization, %", perflog.GPUUtilization, HigherIsWorse, Average},
	{"AVG Memory, %", perflog.MemoryPercent, HigherIsWorse, Average},
	{"MAX Memory, mb", perflog.MemoryMB, HigherIsWorse, Maximum},
	{`MAX Disk Read, kb\s`, perflog.DiskRead, HigherIsWorse, Maximum},
	{`MAX Disk Write, kb\s`, perflog.DiskWrite, HigherIsWorse, Maximum},
	{"AVG Disk Idle, %", perflog.DiskIdle, HigherIsWorse, Average},
	{"MAX Reserved Memory, mb", perflog.TotalReservedMem, HigherIsWorse, Maximum},
	{"MAX Desired Tex Memory, mb", perflog.DesiredTexMem, HigherIsWorse, Maximum},
}

// Statistics returns the summary rows in display order.
func Statistics() []Statistic {
	return append([]Statistic(nil), statistics...)
}

// PercentAbove returns the share of numeric samples strictly greater than
// threshold, as a percentage rounded to two decimals.
func PercentAbove(threshold float64) Func {
	return func(ds *perflog.Dataset, m perflog.Metric) Cell {
		values := ds.Floats(m)
		if len(values) == 0 {
			return blank()
		}
		above := 0
		for _, v := range values {
			if v > threshold {
				above++
			}
		}
		return rounded(float64(above) / float64(len(values)) * 100)
	}
}

// Average returns the arithmetic mean of the numeric samples rounded to two decimals.
func Average(ds *perflog.Dataset, m perflog.Metric) Cell {
	values := ds.Floats(m)
	if len(values) == 0 {
		return blank()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return rounded(sum / float64(len(values)))
}

// Maximum returns the largest numeric sample without rounding.
func Maximum(ds *perflog.Dataset, m perflog.Metric) Cell {
	values := ds.Floats(m)
	if len(values) == 0 {
		return blank()
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return exact(max)
}
