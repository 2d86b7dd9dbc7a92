// ABOUTME: Cobra command that opens the full-screen entry browser.
// ABOUTME: Runs the bubbletea browser model against the configured journal API.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/gratitude/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse and write entries",
	Long:  "Open the full-screen browser. Press w to write an entry and d to delete the selected one.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	model := tui.NewBrowserModel(globalClient, globalLog)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
