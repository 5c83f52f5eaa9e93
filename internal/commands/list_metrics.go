package perfview

import (
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/spf13/cobra"
)

// metricsCmd implements 'list metrics'.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List the metric keys understood in capture logs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries := make([]CommandInfo, 0, len(perflog.Metrics()))
		for _, m := range perflog.Metrics() {
			desc := m.Label() + " (column " + m.Header() + ")"
			if !m.Chartable() {
				desc += ", not charted"
			}
			entries = append(entries, CommandInfo{Path: string(m), Description: desc})
		}
		ListCommands(cmd.OutOrStdout(), "Metrics:", entries)
	},
}

func init() {
	listCmd.AddCommand(metricsCmd)
}
