// Package perfview implements the perfview command tree: the web UI server and
// the terminal commands that summarize, report on and export capture logs.
package perfview

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mwiater/perfview/internal/appconfig"
	"github.com/mwiater/perfview/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	loadedFile    string
	currentConfig *appconfig.Config
	currentViper  = viper.New()
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// scalarFlags are copied from the config file into unchanged flags so that
// every command sees one merged view.
var scalarFlags = []string{
	"debug", "logFile", "listen", "maxUploadMB", "exportDir",
	"defaultMetric", "deltaPlacement", "chartWidth", "chartHeight", "reportTitle",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "perfview",
	Short:        "perfview compares game performance capture logs",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		persistent := cmd.Root().PersistentFlags()
		v := viper.New()
		if err := v.BindPFlags(persistent); err != nil {
			return fmt.Errorf("unable to bind flags: %w", err)
		}
		file, err := ensureConfigLoaded(v, cfgFile)
		if err != nil {
			return err
		}
		loadedFile = file

		for _, name := range scalarFlags {
			flag := persistent.Lookup(name)
			if flag == nil || flag.Changed || !v.InConfig(name) {
				continue
			}
			_ = flag.Value.Set(v.GetString(name))
		}

		var cfg appconfig.Config
		if err := v.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = loadedFile
		currentConfig = &cfg
		currentViper = v

		logging.SetDebug(cfg.Debug)
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.LogDebug("running %s", cmd.CommandPath())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	flags.Bool("debug", false, "enable debug logging")
	flags.String("logFile", "", "path to the log file")
	flags.String("listen", "", "address the web UI listens on (default :8080)")
	flags.Int("maxUploadMB", 0, "largest accepted upload in MB (0 = default)")
	flags.String("exportDir", "", "directory export archives are written to")
	flags.String("defaultMetric", "", "metric charted first (e.g., fpsMeasure)")
	flags.String("deltaPlacement", "", "delta column placement: trailing or beforeLast")
	flags.Int("chartWidth", 0, "exported chart width in pixels (0 = default)")
	flags.Int("chartHeight", 0, "exported chart height in pixels (0 = default)")
	flags.String("reportTitle", "", "title of generated reports")
	flags.StringSlice("corsOrigins", nil, "origins allowed to call the API")
}

// ensureConfigLoaded reads path into v. A missing file is not an error and
// yields an empty path; a present file must match the config schema.
func ensureConfigLoaded(v *viper.Viper, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if err := appconfig.Validate(data); err != nil {
		return "", fmt.Errorf("invalid config file %q: %w", path, err)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return path, nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
