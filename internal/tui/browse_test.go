package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/mwiater/perfview/internal/session"
	"github.com/mwiater/perfview/internal/summary"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New(context.Background(), []perflog.File{
		{Name: "before.csv", Data: []byte("fps_measure;VRAM MB\n50;1000\n50;1200\n")},
		{Name: "after.csv", Data: []byte("fps_measure;VRAM MB\n55;1100\n55;1000\n")},
	})
	if err != nil {
		t.Fatalf("session.New error: %v", err)
	}
	return s
}

// TestUpdate covers quitting, resizing, toggling views and moving the delta column.
func TestUpdate(t *testing.T) {
	m := initialModel(newSession(t), "")
	if m.state != viewMetric || m.placement != summary.PlacementTrailing {
		t.Fatalf("unexpected initial model state=%v placement=%v", m.state, m.placement)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(*model)
	if m.width != 120 || m.height != 40 {
		t.Errorf("Expected 120x40, got %dx%d", m.width, m.height)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(*model)
	if m.state != viewSummary {
		t.Fatalf("Expected summary view, got %v", m.state)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = next.(*model)
	if m.placement != summary.PlacementBeforeLast {
		t.Fatalf("Expected beforeLast placement, got %v", m.placement)
	}
}

func TestView(t *testing.T) {
	s := newSession(t)
	if err := s.SetNames(session.Names{Legend: map[string]string{"after.csv": "patched"}}); err != nil {
		t.Fatalf("SetNames error: %v", err)
	}
	m := initialModel(s, summary.PlacementTrailing)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})

	out := m.View()
	for _, want := range []string{"FPS", "before.csv", "patched", "55.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in metric view:\n%s", want, out)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	out = m.View()
	if !strings.Contains(out, "AVG FPS") || !strings.Contains(out, "+5.00 (+10.00%)") {
		t.Fatalf("unexpected summary view:\n%s", out)
	}
}
