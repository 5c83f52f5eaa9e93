// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoad covers a valid file, defaults applied by the accessors, and the
// failure modes: malformed JSON, schema violations and a missing file.
func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
        "debug": true,
        "listen": "127.0.0.1:9000",
        "maxUploadMB": 4,
        "defaultMetric": "vram",
        "deltaPlacement": "beforeLast",
        "corsOrigins": ["http://localhost:5173"]
    }`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.ConfigPath != path || !cfg.Debug {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ListenAddr() != "127.0.0.1:9000" {
		t.Fatalf("expected configured listen address, got %s", cfg.ListenAddr())
	}
	if cfg.MaxUploadBytes() != 4<<20 {
		t.Fatalf("expected 4MB upload limit, got %d", cfg.MaxUploadBytes())
	}
	if cfg.DefaultMetricKey() != "vram" || cfg.PlacementName() != "beforeLast" {
		t.Fatalf("unexpected metric/placement %s/%s", cfg.DefaultMetricKey(), cfg.PlacementName())
	}
	if w, h := cfg.ChartSize(); w != 1280 || h != 640 {
		t.Fatalf("expected default chart size, got %dx%d", w, h)
	}

	if _, err := Load(writeConfig(t, `{ "debug": `)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	if _, err := Load("nonexistent.json"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() with nonexistent file should wrap os.ErrNotExist, got %v", err)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	err := Validate([]byte(`{"deltaPlacement": "sideways", "defaultMetric": "waypointIndex", "unknown": 1}`))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"deltaPlacement", "defaultMetric", "unknown"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %s", want, msg)
		}
	}
	if err := Validate([]byte(`{}`)); err != nil {
		t.Fatalf("empty config should be valid: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"listen", cfg.ListenAddr(), ":8080"},
		{"log file", cfg.LogFilePath(), "perfview.log"},
		{"export dir", cfg.ExportDirectory(), "."},
		{"metric", cfg.DefaultMetricKey(), "fpsMeasure"},
		{"placement", cfg.PlacementName(), "trailing"},
		{"title", cfg.ReportTitleText(), "perfview report"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q want %q", tt.got, tt.want)
			}
		})
	}
	if cfg.MaxUploadBytes() != 32<<20 {
		t.Fatalf("expected 32MB default, got %d", cfg.MaxUploadBytes())
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", nil, Config{Debug: true, ChartWidth: 800})
	out := buf.String()
	if !strings.Contains(out, "No config file loaded") {
		t.Fatalf("expected default notice, got %s", out)
	}
	if !strings.Contains(out, "Debug:           true") || !strings.Contains(out, "Chart Size:      800x640") {
		t.Fatalf("unexpected output %s", out)
	}
}
