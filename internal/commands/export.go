package perfview

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/perfview/internal/chart"
	"github.com/mwiater/perfview/internal/export"
	"github.com/mwiater/perfview/internal/logging"
	"github.com/spf13/cobra"
)

var exportOpts struct {
	naming  namingOptions
	outDir  string
	metric  string
	comment string
	noChart bool
}

// exportCmd packs the logs, chart, comment and summary into a zip archive.
var exportCmd = &cobra.Command{
	Use:   "export <capture.csv>...",
	Short: "Write a zip archive with the logs, chart image, comment and summary",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, err := metricFlag(cmd, exportOpts.metric)
		if err != nil {
			return err
		}
		s, err := loadSession(cmd, args, &exportOpts.naming)
		if err != nil {
			return err
		}
		cfg := GetConfig()

		var image []byte
		if !exportOpts.noChart {
			width, height := cfg.ChartSize()
			title := s.Names().ReportName
			if strings.TrimSpace(title) == "" {
				title = metric.Label()
			}
			var buf bytes.Buffer
			err := chart.RenderPNG(&buf, s.Chart(metric), chart.RenderOptions{Title: title, Width: width, Height: height})
			switch {
			case errors.Is(err, chart.ErrNotEnoughPoints):
				logging.LogEvent("skipping chart image: %v", err)
			case err != nil:
				return err
			default:
				image = buf.Bytes()
			}
		}

		dir := exportOpts.outDir
		if strings.TrimSpace(dir) == "" {
			dir = cfg.ExportDirectory()
		}
		path, err := export.WriteFile(dir, s.Bundle(exportOpts.comment, metric, image))
		if err != nil {
			return err
		}
		logging.LogEvent("session %s exported to %s", s.ID, path)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successfulResult("Archive written to"), path)
		return nil
	},
}

func init() {
	flags := exportCmd.Flags()
	exportOpts.naming.register(flags)
	flags.StringVar(&exportOpts.outDir, "out", "", "directory to write the archive to (defaults to exportDir)")
	flags.StringVar(&exportOpts.metric, "metric", "", "metric drawn in the chart image")
	flags.StringVar(&exportOpts.comment, "comment", "", "text stored as comment.txt")
	flags.BoolVar(&exportOpts.noChart, "no-chart", false, "leave the chart image out of the archive")
	rootCmd.AddCommand(exportCmd)
}
