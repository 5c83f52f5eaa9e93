package perfview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mwiater/perfview/internal/summary"
	"github.com/mwiater/perfview/internal/util"
	"github.com/spf13/cobra"
)

var summaryOpts struct {
	naming    namingOptions
	placement string
	csvPath   string
}

// summaryCmd prints the statistics table for the given capture logs.
var summaryCmd = &cobra.Command{
	Use:   "summary <capture.csv>...",
	Short: "Print the statistics table comparing capture logs",
	Long: `Print the statistics table for one or more capture logs, in the order given.
With two or more logs the delta column compares the last log against the one before it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		placement, err := placementFlag(cmd, summaryOpts.placement)
		if err != nil {
			return err
		}
		s, err := loadSession(cmd, args, &summaryOpts.naming)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		names := s.Collection().Names()
		fmt.Fprintf(out, "%s %d capture logs: %s\n", noticeResult("Loaded"), len(names), strings.Join(names, ", "))
		fmt.Fprintln(out, summary.RenderTerminal(s.Layout(placement)))

		table := s.Summary()
		if len(table.Datasets) > 1 {
			improved, regressed := toneCounts(table)
			fmt.Fprintf(out, "%s  %s\n",
				successfulResult(fmt.Sprintf("Improved: %d", improved)),
				failedResult(fmt.Sprintf("Regressed: %d", regressed)))
		}

		if summaryOpts.csvPath != "" {
			var buf bytes.Buffer
			if err := summary.WriteCSV(&buf, table, s.Labels()); err != nil {
				return fmt.Errorf("unable to write summary: %w", err)
			}
			if err := util.WriteFile(summaryOpts.csvPath, buf.Bytes()); err != nil {
				return fmt.Errorf("unable to write summary: %w", err)
			}
			fmt.Fprintf(out, "Summary written to %s\n", summaryOpts.csvPath)
		}
		return nil
	},
}

func toneCounts(t summary.Table) (improved, regressed int) {
	for _, row := range t.Rows {
		switch row.Delta.Tone {
		case summary.ToneFavorable:
			improved++
		case summary.ToneUnfavorable:
			regressed++
		}
	}
	return improved, regressed
}

func init() {
	flags := summaryCmd.Flags()
	summaryOpts.naming.register(flags)
	flags.StringVar(&summaryOpts.placement, "placement", "", "delta column placement: trailing or beforeLast")
	flags.StringVar(&summaryOpts.csvPath, "csv", "", "also write the table as a semicolon separated file")
	rootCmd.AddCommand(summaryCmd)
}
