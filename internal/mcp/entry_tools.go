// ABOUTME: MCP tool implementations for journal entry operations.
// ABOUTME: Registers list_entries, write_entry, and delete_entry.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/gratitude/internal/browser"
	"github.com/2389-research/gratitude/internal/models"
)

func (s *Server) registerEntryTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_entries",
		Description: "List journal entries, newest first, three per page. Pass the cursor from a previous call to get the next page, or set all to fetch every page.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"cursor": {"type": "string", "description": "Entry id to continue after, as returned by a previous call"},
				"all": {"type": "boolean", "description": "Fetch every page instead of one (default: false)"}
			}
		}`),
	}, s.handleListEntries)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "write_entry",
		Description: "Write a new gratitude journal entry.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"entry": {"type": "string", "description": "Entry text"}
			},
			"required": ["entry"]
		}`),
	}, s.handleWriteEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "delete_entry",
		Description: "Delete a journal entry by id.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"entry_id": {"type": "string", "description": "Id of the entry to delete"}
			},
			"required": ["entry_id"]
		}`),
	}, s.handleDeleteEntry)
}

func (s *Server) handleListEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Cursor string `json:"cursor"`
		All    bool   `json:"all"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	var entries []models.Entry
	next := models.ExhaustedCursor()

	if args.All {
		b := browser.New(s.client, browser.WithLogger(s.log))
		if err := b.LoadAll(ctx); err != nil {
			return toolError("failed to list entries: %v", err), nil
		}
		entries = b.Snapshot().Entries
	} else {
		page, err := s.client.ListEntries(ctx, args.Cursor)
		if err != nil {
			return toolError("failed to list entries: %v", err), nil
		}
		entries = page.Items
		if token, ok := page.NextToken(); ok {
			next = models.TokenCursor(token)
		}
	}

	s.log.Debug().Int("count", len(entries)).Str("cursor", args.Cursor).Msg("listed entries")

	if len(entries) == 0 {
		return &gomcp.CallToolResult{
			Content: []gomcp.Content{&gomcp.TextContent{Text: "No entries found."}},
		}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d entries:\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. [%s]", i+1, e.ID())
		if ts := e.CreatedAt(); ts != "" {
			fmt.Fprintf(&sb, " %s", ts)
		}
		fmt.Fprintf(&sb, "\n%s\n\n", e.Content())
	}
	if next.Kind == models.CursorToken {
		fmt.Fprintf(&sb, "Next cursor: %s\n", next.Token)
	} else {
		sb.WriteString("No more entries.\n")
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: sb.String()}},
	}, nil
}

func (s *Server) handleWriteEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Entry *string `json:"entry"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Entry == nil {
		return toolError("entry is required"), nil
	}

	if err := s.client.CreateEntry(ctx, *args.Entry); err != nil {
		return toolError("failed to write entry: %v", err), nil
	}
	s.log.Info().Int("length", len(*args.Entry)).Msg("entry written")

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: "Entry submitted."}},
	}, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		EntryID string `json:"entry_id"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	id := models.StripEntryIDPrefix(strings.TrimSpace(args.EntryID))
	if id == "" {
		return toolError("entry_id is required"), nil
	}

	if err := s.client.DeleteEntry(ctx, id); err != nil {
		return toolError("failed to delete entry: %v", err), nil
	}
	s.log.Info().Str("entry_id", id).Msg("entry deleted")

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf("Deleted entry %s.", id)}},
	}, nil
}

func unmarshalArgs(req *gomcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
