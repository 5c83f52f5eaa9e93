package perfview

import (
	"fmt"
	"strings"

	"github.com/mwiater/perfview/internal/logging"
	"github.com/mwiater/perfview/internal/report"
	"github.com/mwiater/perfview/internal/util"
	"github.com/spf13/cobra"
)

const defaultReportFile = "perfview-report.html"

var reportOpts struct {
	naming    namingOptions
	output    string
	title     string
	metric    string
	placement string
	comment   string
}

// reportCmd writes a standalone HTML report.
var reportCmd = &cobra.Command{
	Use:   "report <capture.csv>...",
	Short: "Write a standalone HTML report with charts and the summary table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, err := metricFlag(cmd, reportOpts.metric)
		if err != nil {
			return err
		}
		placement, err := placementFlag(cmd, reportOpts.placement)
		if err != nil {
			return err
		}
		s, err := loadSession(cmd, args, &reportOpts.naming)
		if err != nil {
			return err
		}

		title := reportOpts.title
		if strings.TrimSpace(title) == "" {
			title = s.Names().ReportName
		}
		if strings.TrimSpace(title) == "" {
			title = GetConfig().ReportTitleText()
		}

		payload := report.BuildPayload(s, report.Options{
			DefaultMetric: metric,
			Placement:     placement,
			Comment:       reportOpts.comment,
		})
		page, err := report.Generate(title, payload)
		if err != nil {
			return err
		}
		if err := util.WriteFile(reportOpts.output, []byte(page)); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
		logging.LogEvent("report for session %s written to %s", s.ID, reportOpts.output)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successfulResult("Report written to"), reportOpts.output)
		return nil
	},
}

func init() {
	flags := reportCmd.Flags()
	reportOpts.naming.register(flags)
	flags.StringVarP(&reportOpts.output, "output", "o", defaultReportFile, "HTML file to write")
	flags.StringVar(&reportOpts.title, "title", "", "page title (defaults to the report name or reportTitle)")
	flags.StringVar(&reportOpts.metric, "metric", "", "metric shown first")
	flags.StringVar(&reportOpts.placement, "placement", "", "delta column placement: trailing or beforeLast")
	flags.StringVar(&reportOpts.comment, "comment", "", "comment shown under the chart")
	rootCmd.AddCommand(reportCmd)
}
