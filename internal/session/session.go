// Package session holds the state of one loaded comparison: the uploaded
// capture logs, their parsed datasets and every user-editable name. The web
// server and the commands read chart and summary views from it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mwiater/perfview/internal/chart"
	"github.com/mwiater/perfview/internal/export"
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/mwiater/perfview/internal/summary"
	"github.com/oklog/ulid/v2"
)

// ErrUnknownDataset is returned when a name refers to a file not in the session.
var ErrUnknownDataset = errors.New("unknown dataset")

// Names are the user-editable captions of a session.
type Names struct {
	Legend     map[string]string `json:"legend"`
	ReportName string            `json:"reportName"`
	TableTitle string            `json:"tableTitle"`
	Columns    []string          `json:"columns"`
}

// Session is one loaded set of capture logs. The datasets never change; the
// names may be edited concurrently.
type Session struct {
	ID        string
	CreatedAt time.Time

	files      []perflog.File
	collection *perflog.Collection

	mu    sync.RWMutex
	names Names
}

// New parses files in order and returns a session over them. File bytes are
// retained for export.
func New(ctx context.Context, files []perflog.File) (*Session, error) {
	collection, err := perflog.Load(ctx, files)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:         strings.ToLower(ulid.Make().String()),
		CreatedAt:  time.Now(),
		files:      append([]perflog.File(nil), files...),
		collection: collection,
		names:      Names{Legend: map[string]string{}},
	}, nil
}

// Collection returns the parsed datasets.
func (s *Session) Collection() *perflog.Collection { return s.collection }

// Files returns the retained uploads, one per dataset. A re-uploaded name
// keeps only its last content.
func (s *Session) Files() []perflog.File {
	latest := make(map[string]perflog.File, len(s.files))
	for _, f := range s.files {
		latest[f.Name] = f
	}
	out := make([]perflog.File, 0, len(latest))
	for _, name := range s.collection.Names() {
		out = append(out, latest[name])
	}
	return out
}

// Names returns a copy of the current captions.
func (s *Session) Names() Names {
	s.mu.RLock()
	defer s.mu.RUnlock()
	legend := make(map[string]string, len(s.names.Legend))
	for k, v := range s.names.Legend {
		legend[k] = v
	}
	return Names{
		Legend:     legend,
		ReportName: s.names.ReportName,
		TableTitle: s.names.TableTitle,
		Columns:    append([]string(nil), s.names.Columns...),
	}
}

// SetNames replaces the captions. Legend keys must name loaded datasets and
// there may be at most one column caption per dataset.
func (s *Session) SetNames(n Names) error {
	for key := range n.Legend {
		if _, ok := s.collection.Get(key); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDataset, key)
		}
	}
	if len(n.Columns) > s.collection.Len() {
		return fmt.Errorf("got %d column names for %d datasets", len(n.Columns), s.collection.Len())
	}
	legend := make(map[string]string, len(n.Legend))
	for k, v := range n.Legend {
		legend[k] = strings.TrimSpace(v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = Names{
		Legend:     legend,
		ReportName: strings.TrimSpace(n.ReportName),
		TableTitle: strings.TrimSpace(n.TableTitle),
		Columns:    append([]string(nil), n.Columns...),
	}
	return nil
}

// Chart builds the chart for metric m with the current legend labels.
func (s *Session) Chart(m perflog.Metric) chart.Setup {
	return chart.Build(s.collection, m, s.Names().Legend)
}

// Summary computes the statistics table.
func (s *Session) Summary() summary.Table {
	return summary.Compute(s.collection)
}

// Labels returns the table captions.
func (s *Session) Labels() summary.Labels {
	n := s.Names()
	return summary.Labels{Title: n.TableTitle, Columns: n.Columns}
}

// Layout returns the summary ordered for display.
func (s *Session) Layout(p summary.Placement) summary.Layout {
	return s.Summary().Layout(p, s.Labels())
}

// Bundle collects the export contents. screenshot may be nil.
func (s *Session) Bundle(comment string, m perflog.Metric, screenshot []byte) export.Bundle {
	n := s.Names()
	return export.Bundle{
		Files:       s.Files(),
		LegendNames: n.Legend,
		ReportName:  n.ReportName,
		Comment:     comment,
		Metric:      m,
		Screenshot:  screenshot,
		Summary:     s.Summary(),
		Labels:      summary.Labels{Title: n.TableTitle, Columns: n.Columns},
		CreatedAt:   time.Now(),
	}
}
