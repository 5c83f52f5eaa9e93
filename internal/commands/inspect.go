package perfview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/k0kubun/pp"
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/mwiater/perfview/internal/util"
	"github.com/spf13/cobra"
)

const inspectNameWidth = 40

var inspectOpts struct {
	dump bool
	row  int
}

// datasetInfo is what 'inspect' reports about one capture log.
type datasetInfo struct {
	Name      string
	Rows      int
	Present   []string
	Missing   []string
	Samples   map[perflog.Metric]int
	Point     perflog.Point
	Teleport  string
	PointRow  int
	HasPoints bool
}

func describe(ds *perflog.Dataset, row int) datasetInfo {
	info := datasetInfo{
		Name:     ds.Name(),
		Rows:     ds.Rows(),
		Samples:  map[perflog.Metric]int{},
		PointRow: row,
	}
	for _, m := range perflog.Metrics() {
		if !ds.HasColumn(m) {
			info.Missing = append(info.Missing, m.Header())
			continue
		}
		info.Present = append(info.Present, m.Header())
		if m.Chartable() {
			info.Samples[m] = len(ds.Floats(m))
		}
	}
	if p, ok := ds.Point(row); ok {
		info.Point = p
		info.Teleport = p.TeleportCommand()
		info.HasPoints = true
	}
	return info
}

// inspectCmd reports the columns and sample counts found in capture logs.
var inspectCmd = &cobra.Command{
	Use:   "inspect <capture.csv>...",
	Short: "Show which metrics each capture log carries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd, args, nil)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		infos := make([]datasetInfo, 0, s.Collection().Len())
		rows := make([][]string, 0, s.Collection().Len())
		for _, ds := range s.Collection().Datasets() {
			info := describe(ds, inspectOpts.row)
			infos = append(infos, info)
			rows = append(rows, []string{
				util.TruncateRunes(info.Name, inspectNameWidth),
				strconv.Itoa(info.Rows),
				strconv.Itoa(info.Samples[perflog.FPSMeasure]),
				strings.Join(info.Missing, ", "),
				info.Teleport,
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Log", "Rows", "FPS samples", "Missing columns", fmt.Sprintf("Row %d", inspectOpts.row)).
			Rows(rows...)
		fmt.Fprintln(out, t.Render())

		if inspectOpts.dump {
			for _, info := range infos {
				pp.Fprintln(out, info)
			}
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectOpts.dump, "dump", false, "pretty-print the full details of every log")
	inspectCmd.Flags().IntVar(&inspectOpts.row, "row", 0, "row whose position is shown")
	rootCmd.AddCommand(inspectCmd)
}
