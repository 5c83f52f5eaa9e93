package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}
	width, height := cfg.ChartSize()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Listen:          %s\n", cfg.ListenAddr())
	fmt.Fprintf(out, "  Max Upload:      %d MB\n", cfg.MaxUploadBytes()>>20)
	fmt.Fprintf(out, "  Export Dir:      %s\n", cfg.ExportDirectory())
	fmt.Fprintf(out, "  Default Metric:  %s\n", cfg.DefaultMetricKey())
	fmt.Fprintf(out, "  Delta Placement: %s\n", cfg.PlacementName())
	fmt.Fprintf(out, "  Chart Size:      %dx%d\n", width, height)
	fmt.Fprintf(out, "  Report Title:    %s\n", cfg.ReportTitleText())
	if len(cfg.CORSOrigins) > 0 {
		fmt.Fprintf(out, "  CORS Origins:    %s\n", strings.Join(cfg.CORSOrigins, ", "))
	}
}
