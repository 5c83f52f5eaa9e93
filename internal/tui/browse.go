// Package tui is the interactive terminal browser for a loaded comparison.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/perfview/internal/chart"
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/mwiater/perfview/internal/session"
	"github.com/mwiater/perfview/internal/summary"
)

type view int

const (
	viewMetric view = iota
	viewSummary
)

var (
	titleStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// item is one metric in the selector.
type item struct {
	metric perflog.Metric
}

// Title returns the metric label.
func (i item) Title() string { return i.metric.Label() }

// Description returns the metric key.
func (i item) Description() string { return string(i.metric) }

// FilterValue returns the label, used for filtering.
func (i item) FilterValue() string { return i.metric.Label() }

type model struct {
	session   *session.Session
	metrics   list.Model
	placement summary.Placement
	state     view
	width     int
	height    int
}

func initialModel(s *session.Session, placement summary.Placement) *model {
	metrics := perflog.ChartableMetrics()
	items := make([]list.Item, len(metrics))
	for i, m := range metrics {
		items[i] = item{metric: m}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Metrics"
	l.SetShowHelp(false)

	if placement == "" {
		placement = summary.PlacementTrailing
	}
	return &model{
		session:   s,
		metrics:   l,
		placement: placement,
		state:     viewMetric,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) selected() perflog.Metric {
	if it, ok := m.metrics.SelectedItem().(item); ok {
		return it.metric
	}
	return perflog.FPSMeasure
}

// Update handles navigation and the view toggles.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.state == viewMetric {
				m.state = viewSummary
			} else {
				m.state = viewMetric
			}
			return m, nil
		case "d":
			m.placement = m.placement.Toggle()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.metrics.SetSize(msg.Width/3, msg.Height-4)
	}

	if m.state != viewMetric {
		return m, nil
	}
	var cmd tea.Cmd
	m.metrics, cmd = m.metrics.Update(msg)
	return m, cmd
}

// metricTable lists sample count, average and maximum of the selected metric per dataset.
func (m *model) metricTable(metric perflog.Metric) string {
	legend := m.session.Names().Legend
	rows := make([][]string, 0, m.session.Collection().Len())
	for _, ds := range m.session.Collection().Datasets() {
		avg := summary.Average(ds, metric)
		max := summary.Maximum(ds, metric)
		rows = append(rows, []string{
			chart.LegendLabel(legend, ds.Name()),
			strconv.Itoa(len(ds.Floats(metric))),
			avg.Text,
			max.Text,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("dataset", "samples", "avg", "max").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// View renders the current state.
func (m *model) View() string {
	var b strings.Builder
	if m.state == viewSummary {
		b.WriteString(titleStyle.Render("Summary") + "\n\n")
		b.WriteString(summary.RenderTerminal(m.session.Layout(m.placement)))
		b.WriteString("\n" + helpStyle.Render(fmt.Sprintf(" delta: %s (d to move, tab for metrics, q to quit)", m.placement)))
		return b.String()
	}

	metric := m.selected()
	detail := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(metric.Label()),
		"",
		m.metricTable(metric),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.metrics.View(), "  ", detail))
	b.WriteString("\n" + helpStyle.Render(" (↑/↓ to choose, tab for summary, q to quit)"))
	return b.String()
}

// Run starts the browser for s and blocks until the user quits.
func Run(s *session.Session, placement summary.Placement) error {
	p := tea.NewProgram(initialModel(s, placement), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run browser: %w", err)
	}
	return nil
}
