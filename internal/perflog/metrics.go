// Package perflog ingests semicolon-delimited performance capture logs into
// column-oriented datasets.
package perflog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned when a metric key does not name a known column.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric identifies one column of a capture log.
type Metric string

const (
	WaypointIndex    Metric = "waypointIndex"
	PlayerPosition   Metric = "playerPosition"
	PlayerRotation   Metric = "playerRotation"
	FPSMeasure       Metric = "fpsMeasure"
	GameUpdate       Metric = "gameUpdate"
	RenderMeasurer   Metric = "renderMeasurer"
	FrameMeasurer    Metric = "frameMeasurer"
	DiskIdle         Metric = "diskIdle"
	DiskRead         Metric = "diskRead"
	DiskWrite        Metric = "diskWrite"
	VRAM             Metric = "vram"
	MemoryMB         Metric = "memoryMB"
	MemoryPercent    Metric = "memoryPercent"
	DesiredTexMem    Metric = "desiredTexMem"
	TotalReservedMem Metric = "totalReservedMem"
	GPUUtilization   Metric = "gpuUtilization"
)

type metricDef struct {
	metric  Metric
	header  string
	label   string
	numeric bool
}

// metricDefs is ordered the way columns appear in a capture log.
// The GPU utilization header carries a leading space in the capture tool output.
var metricDefs = []metricDef{
	{WaypointIndex, "waypoint_index", "Waypoint", false},
	{PlayerPosition, "player_position", "Player position", false},
	{PlayerRotation, "player_rotation", "Player rotation", false},
	{FPSMeasure, "fps_measure", "FPS", true},
	{GameUpdate, "game_update", "Game update", true},
	{RenderMeasurer, "render_measurer", "Render measure", true},
	{FrameMeasurer, "frame_measurer", "Frame measure", true},
	{DiskIdle, "disk_idle %", "Disk idle, %", true},
	{DiskRead, "disk_read KB/s", "Disk read, KB/s", true},
	{DiskWrite, "disk_write KB/s", "Disk write, KB/s", true},
	{VRAM, "VRAM MB", "VRAM, MB", true},
	{MemoryMB, "Memory MB", "Memory, MB", true},
	{MemoryPercent, "Memory %", "Memory, %", true},
	{DesiredTexMem, "Desired Tex Mem MB", "Desired texture memory, MB", true},
	{TotalReservedMem, "Total Reserved Mem, MB", "Total reserved memory, MB", true},
	{GPUUtilization, " GPU Utilization %", "GPU utilization, %", true},
}

// Metrics returns every known metric in column order.
func Metrics() []Metric {
	out := make([]Metric, 0, len(metricDefs))
	for _, def := range metricDefs {
		out = append(out, def.metric)
	}
	return out
}

// ChartableMetrics returns the metrics that can be plotted on the y axis.
// The waypoint index and the position/rotation tuples are excluded.
func ChartableMetrics() []Metric {
	var out []Metric
	for _, def := range metricDefs {
		if def.numeric {
			out = append(out, def.metric)
		}
	}
	return out
}

// ParseMetric resolves a metric key such as "fpsMeasure".
func ParseMetric(key string) (Metric, error) {
	trimmed := strings.TrimSpace(key)
	for _, def := range metricDefs {
		if string(def.metric) == trimmed {
			return def.metric, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, key)
}

// Header returns the exact CSV header name for the metric.
func (m Metric) Header() string {
	if def, ok := lookup(m); ok {
		return def.header
	}
	return ""
}

// Label returns a human-readable name for the metric.
func (m Metric) Label() string {
	if def, ok := lookup(m); ok {
		return def.label
	}
	return string(m)
}

// Chartable reports whether the metric holds plain numeric samples.
func (m Metric) Chartable() bool {
	def, ok := lookup(m)
	return ok && def.numeric
}

func lookup(m Metric) (metricDef, bool) {
	for _, def := range metricDefs {
		if def.metric == m {
			return def, true
		}
	}
	return metricDef{}, false
}
