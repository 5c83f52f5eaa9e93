package main

import (
	perfview "github.com/mwiater/perfview/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Hooks swapped in tests.
var (
	setVersionInfo = perfview.SetVersionInfo
	executeCmd     = perfview.Execute
)

// main injects build metadata and runs the perfview command tree.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
