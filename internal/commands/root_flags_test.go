package perfview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/perfview/internal/logging"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestPersistentPreRunEMergesConfigAndFlags(t *testing.T) {
	configPath := writeTempConfig(t, `{"debug": true, "listen": ":9090", "chartWidth": 800, "corsOrigins": ["http://localhost:3000"]}`)

	if _, err := execute(t, "--config", configPath, "--listen", ":7000", "show", "config"); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	cfg := GetConfig()
	if cfg.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s, got %q", configPath, cfg.ConfigPath)
	}
	if cfg.Listen != ":7000" {
		t.Fatalf("flag must override config, got listen %q", cfg.Listen)
	}
	if !cfg.Debug || cfg.ChartWidth != 800 {
		t.Fatalf("expected config values to flow into config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if flag := rootCmd.PersistentFlags().Lookup("chartWidth"); flag.Value.String() != "800" {
		t.Fatalf("expected config value copied into flag, got %s", flag.Value.String())
	}
}

func TestPersistentPreRunERejectsInvalidConfig(t *testing.T) {
	configPath := writeTempConfig(t, `{"deltaPlacement": "sideways", "colour": "red"}`)

	_, err := execute(t, "--config", configPath, "show", "config")
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if !strings.Contains(err.Error(), "invalid config file") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	configPath := writeTempConfig(t, `{"listen": ":9090"}`)

	out, err := execute(t, "--config", configPath, "--debug", "show", "config")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	for _, want := range []string{"Config file: " + configPath, "Debug:           true", "Listen:          :9090"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestShowConfigWithoutFile(t *testing.T) {
	out, err := execute(t, "show", "config")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(out, "No config file loaded") || !strings.Contains(out, "Listen:          :8080") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPersistentPreRunEReadsRootFlagsFromSubcommand(t *testing.T) {
	resetFlags(rootCmd)
	configPath := writeTempConfig(t, `{"reportTitle": "Weekly"}`)
	prevCfgFile := cfgFile
	cfgFile = configPath
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		currentConfig = nil
		loadedFile = ""
		_ = logging.Close()
		resetFlags(rootCmd)
	})

	_ = rootCmd.PersistentFlags().Set("logFile", filepath.Join(t.TempDir(), "perfview.log"))
	_ = rootCmd.PersistentFlags().Set("exportDir", "archives")

	if err := rootCmd.PersistentPreRunE(showConfigCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}
	cfg := GetConfig()
	if cfg.ExportDir != "archives" || cfg.ReportTitle != "Weekly" || cfg.ConfigPath != configPath {
		t.Fatalf("expected root flags and config file to merge, got %+v", cfg)
	}
}
