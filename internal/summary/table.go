package summary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mwiater/perfview/internal/perflog"
	"github.com/samber/lo"
)

// Tone classifies a delta for colouring.
type Tone string

const (
	ToneNone        Tone = ""
	ToneFavorable   Tone = "favorable"
	ToneUnfavorable Tone = "unfavorable"
	ToneNeutral     Tone = "neutral"
)

// Delta compares the last dataset against the previous one.
type Delta struct {
	Abs     Cell `json:"abs"`
	Percent Cell `json:"percent"`
	Tone    Tone `json:"tone"`
}

// ComputeDelta returns last-previous both absolute and as a percentage of
// previous. Either part is blank when an operand is blank; the percentage is
// also blank when previous is zero.
func ComputeDelta(previous, last Cell, dir Direction) Delta {
	if !previous.Valid || !last.Valid {
		return Delta{}
	}
	diff := last.Value - previous.Value
	if math.IsNaN(diff) || math.IsInf(diff, 0) {
		return Delta{}
	}
	abs := round2(diff)
	d := Delta{
		Abs:  Cell{Value: abs, Valid: true, Text: signed(abs)},
		Tone: toneFor(abs, dir),
	}
	if previous.Value != 0 {
		pct := last.Value/previous.Value*100 - 100
		if !math.IsNaN(pct) && !math.IsInf(pct, 0) {
			p := round2(pct)
			d.Percent = Cell{Value: p, Valid: true, Text: signed(p) + "%"}
		}
	}
	return d
}

func signed(v float64) string {
	text := strconv.FormatFloat(v, 'f', 2, 64)
	if v > 0 {
		return "+" + text
	}
	return text
}

func toneFor(delta float64, dir Direction) Tone {
	switch {
	case delta == 0:
		return ToneNeutral
	case (delta > 0) == (dir == HigherIsBetter):
		return ToneFavorable
	default:
		return ToneUnfavorable
	}
}

// Row holds one statistic across all datasets.
type Row struct {
	Statistic string         `json:"statistic"`
	Metric    perflog.Metric `json:"metric"`
	Direction Direction      `json:"direction"`
	Values    []Cell         `json:"values"`
	Delta     Delta          `json:"delta"`
}

// Table is the computed summary, independent of how it is laid out.
type Table struct {
	Datasets []string `json:"datasets"`
	Rows     []Row    `json:"rows"`
}

// Compute evaluates every statistic for every dataset in collection order.
func Compute(c *perflog.Collection) Table {
	datasets := c.Datasets()
	table := Table{
		Datasets: c.Names(),
		Rows:     make([]Row, 0, len(statistics)),
	}
	for _, st := range statistics {
		st := st
		values := lo.Map(datasets, func(ds *perflog.Dataset, _ int) Cell {
			return st.Compute(ds, st.Metric)
		})
		row := Row{
			Statistic: st.Name,
			Metric:    st.Metric,
			Direction: st.Direction,
			Values:    values,
		}
		if previous, last, ok := c.LastTwo(); ok {
			row.Delta = ComputeDelta(st.Compute(previous, st.Metric), st.Compute(last, st.Metric), st.Direction)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Row returns the row for a statistic name.
func (t Table) Row(name string) (Row, bool) {
	return lo.Find(t.Rows, func(r Row) bool { return r.Statistic == name })
}

// Placement positions the delta column relative to the dataset columns.
type Placement string

const (
	// PlacementTrailing puts the delta after every dataset column.
	PlacementTrailing Placement = "trailing"
	// PlacementBeforeLast puts the delta between the previous and the last dataset.
	PlacementBeforeLast Placement = "beforeLast"
)

// ParsePlacement accepts "trailing" or "beforeLast"; blank means trailing.
func ParsePlacement(s string) (Placement, error) {
	switch strings.TrimSpace(s) {
	case "", string(PlacementTrailing):
		return PlacementTrailing, nil
	case string(PlacementBeforeLast):
		return PlacementBeforeLast, nil
	default:
		return "", fmt.Errorf("invalid delta placement %q (expected %q or %q)", s, PlacementTrailing, PlacementBeforeLast)
	}
}

// Toggle swaps between the two placements.
func (p Placement) Toggle() Placement {
	if p == PlacementBeforeLast {
		return PlacementTrailing
	}
	return PlacementBeforeLast
}

// Labels are the user-editable table captions.
type Labels struct {
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
}

// DefaultTitle is the placeholder caption of the statistic column.
const DefaultTitle = "tableName"

// DeltaHeader is the caption of the delta column.
const DeltaHeader = "delta"

// ColumnName returns the caption of dataset column i, defaulting to "report #N".
func (l Labels) ColumnName(i int) string {
	if i < len(l.Columns) && strings.TrimSpace(l.Columns[i]) != "" {
		return l.Columns[i]
	}
	return fmt.Sprintf("report #%d", i+1)
}

// TitleText returns the statistic column caption.
func (l Labels) TitleText() string {
	if strings.TrimSpace(l.Title) != "" {
		return l.Title
	}
	return DefaultTitle
}

// LayoutCell is one rendered cell.
type LayoutCell struct {
	Text   string `json:"text"`
	Detail string `json:"detail,omitempty"`
	Tone   Tone   `json:"tone,omitempty"`
	Delta  bool   `json:"delta,omitempty"`
}

// Layout is the table in presentation order.
type Layout struct {
	Header []string       `json:"header"`
	Rows   [][]LayoutCell `json:"rows"`
}

// deltaIndex returns the position of the delta among the dataset columns.
func deltaIndex(p Placement, datasets int) int {
	if p == PlacementBeforeLast && datasets > 0 {
		return datasets - 1
	}
	return datasets
}

// Layout orders the table for display. Only the delta column moves; values
// are not recomputed.
func (t Table) Layout(p Placement, labels Labels) Layout {
	n := len(t.Datasets)
	at := deltaIndex(p, n)

	header := []string{labels.TitleText()}
	for i := 0; i <= n; i++ {
		if i == at {
			header = append(header, DeltaHeader)
		}
		if i < n {
			header = append(header, labels.ColumnName(i))
		}
	}

	rows := make([][]LayoutCell, 0, len(t.Rows))
	for _, r := range t.Rows {
		cells := []LayoutCell{{Text: r.Statistic}}
		for i := 0; i <= n; i++ {
			if i == at {
				cells = append(cells, LayoutCell{
					Text:   r.Delta.Abs.Text,
					Detail: r.Delta.Percent.Text,
					Tone:   r.Delta.Tone,
					Delta:  true,
				})
			}
			if i < n {
				text := ""
				if i < len(r.Values) {
					text = r.Values[i].Text
				}
				cells = append(cells, LayoutCell{Text: text})
			}
		}
		rows = append(rows, cells)
	}
	return Layout{Header: header, Rows: rows}
}
