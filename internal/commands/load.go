package perfview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/perfview/internal/logging"
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/mwiater/perfview/internal/session"
	"github.com/mwiater/perfview/internal/summary"
	"github.com/mwiater/perfview/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	successfulResult = color.New(color.FgGreen).SprintFunc()
	failedResult     = color.New(color.FgRed).SprintFunc()
	noticeResult     = color.New(color.FgCyan).SprintFunc()
)

// namingOptions are the caption flags shared by the commands that load logs.
type namingOptions struct {
	legend     []string
	reportName string
	tableTitle string
	columns    []string
}

func (o *namingOptions) register(flags *pflag.FlagSet) {
	flags.StringArrayVar(&o.legend, "legend", nil, "legend label for a log, as file=label (repeatable)")
	flags.StringVar(&o.reportName, "name", "", "report name")
	flags.StringVar(&o.tableTitle, "table-title", "", "summary table title")
	flags.StringArrayVar(&o.columns, "column", nil, "summary column name, in log order (repeatable)")
}

// names converts the flags to session captions. Legend keys may be given as
// paths; only the base name is matched.
func (o *namingOptions) names() (session.Names, error) {
	legend := make(map[string]string, len(o.legend))
	for _, pair := range o.legend {
		key, label, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return session.Names{}, fmt.Errorf("invalid legend %q: want file=label", pair)
		}
		legend[filepath.Base(strings.TrimSpace(key))] = label
	}
	return session.Names{
		Legend:     legend,
		ReportName: o.reportName,
		TableTitle: o.tableTitle,
		Columns:    o.columns,
	}, nil
}

// loadSession reads the capture logs named by args, in order, and applies
// the caption flags.
func loadSession(cmd *cobra.Command, args []string, naming *namingOptions) (*session.Session, error) {
	paths, err := util.ExpandPaths(args)
	if err != nil {
		return nil, err
	}
	files, err := perflog.ReadFiles(paths)
	if err != nil {
		return nil, err
	}
	s, err := session.New(cmd.Context(), files)
	if err != nil {
		return nil, err
	}
	if naming != nil {
		names, err := naming.names()
		if err != nil {
			return nil, err
		}
		if err := s.SetNames(names); err != nil {
			return nil, err
		}
	}
	logging.LogEvent("loaded %d capture logs into session %s", s.Collection().Len(), s.ID)
	return s, nil
}

// placementFlag returns the flag value when set, else the configured placement.
func placementFlag(cmd *cobra.Command, value string) (summary.Placement, error) {
	if !cmd.Flags().Changed("placement") {
		value = GetConfig().PlacementName()
	}
	return summary.ParsePlacement(value)
}

// metricFlag resolves a chartable metric from the flag or the configured default.
func metricFlag(cmd *cobra.Command, value string) (perflog.Metric, error) {
	if !cmd.Flags().Changed("metric") {
		value = GetConfig().DefaultMetricKey()
	}
	m, err := perflog.ParseMetric(value)
	if err != nil {
		return "", err
	}
	if !m.Chartable() {
		return "", fmt.Errorf("metric %q cannot be charted", value)
	}
	return m, nil
}
