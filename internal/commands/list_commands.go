package perfview

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// CommandInfo holds the path and description of a command for display.
type CommandInfo struct {
	Path        string
	Description string
}

// listCmd groups listings.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List commands and metrics",
}

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Long:  `The 'commands' subcommand lists all commands and subcommands in a hierarchical, indented format, with the command path in the first column and its short description in the second column.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		commandData := lo.Filter(collectCommandData(rootCmd, "", ""), func(data CommandInfo, _ int) bool {
			return !strings.Contains(data.Path, "completion") && !strings.Contains(data.Path, " help")
		})
		ListCommands(cmd.OutOrStdout(), "Commands and Subcommands:", commandData)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(listCmd)
}

// collectCommandData walks the command tree and returns a flattened slice of
// path/description pairs, indented by depth.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []CommandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	allData := []CommandInfo{{Path: indent + fullPath, Description: cmd.Short}}
	for _, subCmd := range cmd.Commands() {
		allData = append(allData, collectCommandData(subCmd, fullPath, indent+"  ")...)
	}
	return allData
}

// ListCommands prints entries under heading in a two-column layout.
func ListCommands(out io.Writer, heading string, entries []CommandInfo) {
	width := 0
	for _, data := range entries {
		width = max(width, len(data.Path))
	}

	fmt.Fprintln(out, heading)
	for _, data := range entries {
		fmt.Fprintf(out, "  %-*s  %s\n", width, data.Path, data.Description)
	}
}
