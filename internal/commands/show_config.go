package perfview

import (
	"github.com/mwiater/perfview/internal/appconfig"
	"github.com/spf13/cobra"
)

// showCmd groups read-only views of the tool's own state.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show perfview settings",
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug:          currentViper.GetBool("debug"),
			LogFile:        currentViper.GetString("logFile"),
			Listen:         currentViper.GetString("listen"),
			MaxUploadMB:    currentViper.GetInt("maxUploadMB"),
			ExportDir:      currentViper.GetString("exportDir"),
			DefaultMetric:  currentViper.GetString("defaultMetric"),
			DeltaPlacement: currentViper.GetString("deltaPlacement"),
			ChartWidth:     currentViper.GetInt("chartWidth"),
			ChartHeight:    currentViper.GetInt("chartHeight"),
			ReportTitle:    currentViper.GetString("reportTitle"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), loadedFile, currentConfig, fallback)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
