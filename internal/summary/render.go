package summary

import (
	"encoding/csv"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/perfview/internal/perflog"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	statNameStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

var toneStyles = map[Tone]lipgloss.Style{
	ToneFavorable:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("34")).Padding(0, 1),
	ToneUnfavorable: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Padding(0, 1),
	ToneNeutral:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("178")).Padding(0, 1),
}

// DeltaText joins the absolute and percentage parts of a delta cell.
func DeltaText(c LayoutCell) string {
	switch {
	case c.Text == "":
		return ""
	case c.Detail == "":
		return c.Text
	default:
		return c.Text + " (" + c.Detail + ")"
	}
}

// RenderTerminal draws the layout as a bordered terminal table with toned
// delta cells.
func RenderTerminal(layout Layout) string {
	rows := make([][]string, 0, len(layout.Rows))
	for _, r := range layout.Rows {
		cells := make([]string, 0, len(r))
		for _, c := range r {
			if c.Delta {
				cells = append(cells, DeltaText(c))
				continue
			}
			cells = append(cells, c.Text)
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(layout.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return statNameStyle
			}
			if row >= 0 && row < len(layout.Rows) && col < len(layout.Rows[row]) {
				cell := layout.Rows[row][col]
				if style, ok := toneStyles[cell.Tone]; ok && cell.Delta {
					return style
				}
			}
			return cellStyle
		})
	return t.Render()
}

// WriteCSV writes the table with a trailing absolute and percentage delta
// column, using the capture log separator.
func WriteCSV(w io.Writer, t Table, labels Labels) error {
	writer := csv.NewWriter(w)
	writer.Comma = perflog.Separator

	header := []string{labels.TitleText()}
	for i := range t.Datasets {
		header = append(header, labels.ColumnName(i))
	}
	header = append(header, DeltaHeader, DeltaHeader+" %")
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range t.Rows {
		record := []string{r.Statistic}
		for i := range t.Datasets {
			text := ""
			if i < len(r.Values) {
				text = r.Values[i].Text
			}
			record = append(record, text)
		}
		record = append(record, r.Delta.Abs.Text, r.Delta.Percent.Text)
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
