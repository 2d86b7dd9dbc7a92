// ABOUTME: CLI commands for journal entry operations.
// ABOUTME: Provides list, write, and delete subcommands against the journal API.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389-research/gratitude/internal/api"
	"github.com/2389-research/gratitude/internal/browser"
	"github.com/2389-research/gratitude/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries",
	Long:  "List entries newest first. Shows one page unless --all is given.",
	RunE:  runList,
}

var writeCmd = &cobra.Command{
	Use:   "write <entry>",
	Short: "Write an entry",
	Long:  "Submit a new entry. Multiple arguments are joined with spaces.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWrite,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete an entry",
	Long:  "Delete an entry by the id shown in list output.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// Flags
var (
	listAll    bool
	listCursor string
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(deleteCmd)

	listCmd.Flags().BoolVar(&listAll, "all", false, "Fetch every page")
	listCmd.Flags().StringVar(&listCursor, "cursor", "", "Entry id to continue after")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if listCursor != "" && !listAll {
		page, err := globalClient.ListEntries(ctx, listCursor)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		next := models.ExhaustedCursor()
		if token, ok := page.NextToken(); ok {
			next = models.TokenCursor(token)
		}
		printEntries(page.Items, next)
		return nil
	}

	b := newBrowser()
	load := b.Mount
	if listAll {
		load = b.LoadAll
	}
	if err := load(ctx); err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	state := b.Snapshot()
	printEntries(state.Entries, state.Cursor)
	return nil
}

func runWrite(cmd *cobra.Command, args []string) error {
	b := newBrowser()
	err := b.SubmitEntry(cmd.Context(), strings.Join(args, " "))
	if err != nil && !isReloadError(err) {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	fmt.Println("Entry submitted.")
	if err != nil {
		return fmt.Errorf("failed to reload entries: %w", err)
	}

	fmt.Println()
	state := b.Snapshot()
	printEntries(state.Entries, state.Cursor)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := models.StripEntryIDPrefix(args[0])
	b := newBrowser()
	err := b.DeleteEntry(cmd.Context(), id)
	if err != nil && !isReloadError(err) {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	fmt.Printf("Deleted entry %s\n", id)
	if err != nil {
		return fmt.Errorf("failed to reload entries: %w", err)
	}
	return nil
}

func newBrowser() *browser.Browser {
	return browser.New(globalClient, browser.WithLogger(globalLog))
}

// isReloadError reports whether err came from the list refetch that follows
// a successful create or delete.
func isReloadError(err error) bool {
	var fe *api.FetchError
	return errors.As(err, &fe) && fe.Op == api.OpList
}

func printEntries(entries []models.Entry, next models.Cursor) {
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}

	for _, e := range entries {
		fmt.Printf("--- %s %s\n", e.ID(), e.CreatedAt())
		fmt.Printf("  %s\n\n", strings.ReplaceAll(e.Content(), "\n", "\n  "))
	}
	if next.Kind == models.CursorToken {
		fmt.Printf("More entries: gratitude list --cursor %s\n", next.Token)
	}
}
