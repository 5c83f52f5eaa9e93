// Package report renders the browser front end: a bootstrap page with a
// Chart.js line chart, an editable legend and the summary table. The same
// template serves the live upload page and standalone HTML reports.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/mwiater/perfview/internal/chart"
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/mwiater/perfview/internal/session"
	"github.com/mwiater/perfview/internal/summary"
)

// MetricOption is one entry of the metric selector.
type MetricOption struct {
	Key   perflog.Metric `json:"key"`
	Label string         `json:"label"`
}

// Payload is the data embedded into a standalone report. Every chartable
// metric is pre-built so the page works without a server.
type Payload struct {
	SessionID     string                               `json:"sessionId"`
	GeneratedAt   time.Time                            `json:"generatedAt"`
	Datasets      []string                             `json:"datasets"`
	Metrics       []MetricOption                       `json:"metrics"`
	DefaultMetric perflog.Metric                       `json:"defaultMetric"`
	Charts        map[perflog.Metric]chart.Setup       `json:"charts"`
	Layouts       map[summary.Placement]summary.Layout `json:"layouts"`
	Placement     summary.Placement                    `json:"placement"`
	Names         session.Names                        `json:"names"`
	Comment       string                               `json:"comment,omitempty"`
}

// Options tune BuildPayload.
type Options struct {
	DefaultMetric perflog.Metric
	Placement     summary.Placement
	Comment       string
}

// Page is the template view model.
type Page struct {
	Title       string
	Interactive bool
	PayloadJSON template.JS
	MetricsJSON template.JS
}

// MetricOptions lists the chartable metrics in column order.
func MetricOptions() []MetricOption {
	metrics := perflog.ChartableMetrics()
	out := make([]MetricOption, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, MetricOption{Key: m, Label: m.Label()})
	}
	return out
}

// BuildPayload snapshots a session for embedding.
func BuildPayload(s *session.Session, opts Options) Payload {
	metric := opts.DefaultMetric
	if !metric.Chartable() {
		metric = perflog.FPSMeasure
	}
	placement := opts.Placement
	if placement == "" {
		placement = summary.PlacementTrailing
	}

	table := s.Summary()
	labels := s.Labels()
	charts := make(map[perflog.Metric]chart.Setup)
	for _, m := range perflog.ChartableMetrics() {
		charts[m] = s.Chart(m)
	}

	return Payload{
		SessionID:     s.ID,
		GeneratedAt:   time.Now().UTC(),
		Datasets:      s.Collection().Names(),
		Metrics:       MetricOptions(),
		DefaultMetric: metric,
		Charts:        charts,
		Layouts: map[summary.Placement]summary.Layout{
			summary.PlacementTrailing:   table.Layout(summary.PlacementTrailing, labels),
			summary.PlacementBeforeLast: table.Layout(summary.PlacementBeforeLast, labels),
		},
		Placement: placement,
		Names:     s.Names(),
		Comment:   opts.Comment,
	}
}

// Generate renders a standalone HTML report for payload.
func Generate(title string, payload Payload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("unable to encode report payload: %w", err)
	}
	return render(Page{Title: title, PayloadJSON: template.JS(data)})
}

// GenerateInteractive renders the upload page served by the web UI.
func GenerateInteractive(title string) (string, error) {
	return render(Page{Title: title, Interactive: true, PayloadJSON: template.JS("null")})
}

func render(page Page) (string, error) {
	metrics, err := json.Marshal(MetricOptions())
	if err != nil {
		return "", fmt.Errorf("unable to encode metric list: %w", err)
	}
	page.MetricsJSON = template.JS(metrics)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("unable to render report: %w", err)
	}
	return buf.String(), nil
}
