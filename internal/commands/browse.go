package perfview

import (
	"github.com/mwiater/perfview/internal/tui"
	"github.com/spf13/cobra"
)

// runBrowser is swapped in tests.
var runBrowser = tui.Run

var browseOpts struct {
	naming    namingOptions
	placement string
}

// browseCmd opens the terminal browser.
var browseCmd = &cobra.Command{
	Use:   "browse <capture.csv>...",
	Short: "Browse metrics and the summary table in the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		placement, err := placementFlag(cmd, browseOpts.placement)
		if err != nil {
			return err
		}
		s, err := loadSession(cmd, args, &browseOpts.naming)
		if err != nil {
			return err
		}
		return runBrowser(s, placement)
	},
}

func init() {
	browseOpts.naming.register(browseCmd.Flags())
	browseCmd.Flags().StringVar(&browseOpts.placement, "placement", "", "delta column placement: trailing or beforeLast")
	rootCmd.AddCommand(browseCmd)
}
