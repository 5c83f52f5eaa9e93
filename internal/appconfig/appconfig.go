// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultListen is the address the web UI binds to when none is configured.
	defaultListen = ":8080"
	// defaultMaxUploadMB caps a single multipart upload.
	defaultMaxUploadMB = 32
	defaultChartWidth  = 1280
	defaultChartHeight = 640
	defaultMetric      = "fpsMeasure"
	defaultPlacement   = "trailing"
	defaultReportTitle = "perfview report"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug          bool     `json:"debug"`
	LogFile        string   `json:"logFile,omitempty"`
	Listen         string   `json:"listen,omitempty"`
	MaxUploadMB    int      `json:"maxUploadMB,omitempty"`
	ExportDir      string   `json:"exportDir,omitempty"`
	DefaultMetric  string   `json:"defaultMetric,omitempty"`
	DeltaPlacement string   `json:"deltaPlacement,omitempty"`
	ChartWidth     int      `json:"chartWidth,omitempty"`
	ChartHeight    int      `json:"chartHeight,omitempty"`
	CORSOrigins    []string `json:"corsOrigins,omitempty"`
	ReportTitle    string   `json:"reportTitle,omitempty"`
	ConfigPath     string   `json:"-"`
}

// ListenAddr returns the HTTP listen address.
func (c Config) ListenAddr() string {
	if addr := strings.TrimSpace(c.Listen); addr != "" {
		return addr
	}
	return defaultListen
}

// MaxUploadBytes returns the multipart upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return int64(mb) << 20
}

// ChartSize returns the PNG chart dimensions, applying defaults per axis.
func (c Config) ChartSize() (width, height int) {
	width, height = c.ChartWidth, c.ChartHeight
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	return width, height
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "perfview.log"
}

// ExportDirectory returns where archives are written by the CLI.
func (c Config) ExportDirectory() string {
	if dir := strings.TrimSpace(c.ExportDir); dir != "" {
		return dir
	}
	return "."
}

// DefaultMetricKey returns the metric shown first.
func (c Config) DefaultMetricKey() string {
	if key := strings.TrimSpace(c.DefaultMetric); key != "" {
		return key
	}
	return defaultMetric
}

// PlacementName returns the configured delta column placement.
func (c Config) PlacementName() string {
	if p := strings.TrimSpace(c.DeltaPlacement); p != "" {
		return p
	}
	return defaultPlacement
}

// ReportTitleText returns the title used for generated reports.
func (c Config) ReportTitleText() string {
	if title := strings.TrimSpace(c.ReportTitle); title != "" {
		return title
	}
	return defaultReportTitle
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q: %w", path, err)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := Validate(data); err != nil {
		return Config{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("could not decode config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}
