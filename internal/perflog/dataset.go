package perflog

import (
	"math"
	"strconv"
	"strings"
)

// Value is one raw field of a capture log. Defined is false when the column
// was missing from the header or the row was too short to reach it.
type Value struct {
	Text    string `json:"text"`
	Defined bool   `json:"defined"`
}

// Float coerces the raw text to a finite float. Undefined, blank, non-numeric
// and non-finite fields report false.
func (v Value) Float() (float64, bool) {
	if !v.Defined {
		return 0, false
	}
	text := strings.TrimSpace(v.Text)
	if text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Dataset is the parsed content of one capture file. It is never modified
// after Parse returns.
type Dataset struct {
	name    string
	rows    int
	series  map[Metric][]Value
	present map[Metric]bool
}

// Name returns the source file name the dataset was parsed from.
func (d *Dataset) Name() string { return d.name }

// Rows returns the number of samples.
func (d *Dataset) Rows() int { return d.rows }

// HasColumn reports whether the metric's header was present in the file.
func (d *Dataset) HasColumn(m Metric) bool { return d.present[m] }

// Series returns a copy of the raw values for the metric. The result always
// has Rows() entries for a known metric and is nil for an unknown one.
func (d *Dataset) Series(m Metric) []Value {
	values, ok := d.series[m]
	if !ok {
		return nil
	}
	out := make([]Value, len(values))
	copy(out, values)
	return out
}

// Value returns the raw value at row i, or an undefined value when i is out of range.
func (d *Dataset) Value(m Metric, i int) Value {
	values := d.series[m]
	if i < 0 || i >= len(values) {
		return Value{}
	}
	return values[i]
}

// Floats returns the numeric samples of the metric, skipping fields that
// cannot be coerced.
func (d *Dataset) Floats(m Metric) []float64 {
	values := d.series[m]
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Waypoints returns the raw waypoint labels, one per row. Undefined entries
// become empty strings.
func (d *Dataset) Waypoints() []string {
	values := d.series[WaypointIndex]
	out := make([]string, len(values))
	for i, v := range values {
		if v.Defined {
			out[i] = v.Text
		}
	}
	return out
}

// Point returns the positional details of row i.
func (d *Dataset) Point(i int) (Point, bool) {
	if i < 0 || i >= d.rows {
		return Point{}, false
	}
	return Point{
		Waypoint: d.Value(WaypointIndex, i).Text,
		Position: strings.Fields(d.Value(PlayerPosition, i).Text),
		Rotation: strings.Fields(d.Value(PlayerRotation, i).Text),
	}, true
}

// Point describes where in the world a sample was captured.
type Point struct {
	Waypoint string
	Position []string
	Rotation []string
}

// Coordinates formats the position as "x, y, z".
func (p Point) Coordinates() string {
	return strings.Join(p.Position, ", ")
}

// RotationText formats the rotation as "pitch, yaw".
func (p Point) RotationText() string {
	return strings.Join(p.Rotation, ", ")
}

// TeleportCommand returns the console command that moves the player back to
// the sample's position and orientation. It is empty when no position was captured.
func (p Point) TeleportCommand() string {
	if len(p.Position) == 0 {
		return ""
	}
	parts := append(append([]string{}, p.Position...), p.Rotation...)
	return "tp " + strings.Join(parts, ", ")
}
