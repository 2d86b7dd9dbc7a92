// ABOUTME: Connection validation for the journal API.
// ABOUTME: Tests credentials by fetching the first page of entries.
package tui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2389-research/gratitude/internal/api"
)

// ValidateConnection tests the API connection by listing the first page with the given credentials.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL, apiKey string) error {
	client := api.NewClient(apiURL, apiKey, api.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	if _, err := client.ListEntries(ctx, ""); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}
