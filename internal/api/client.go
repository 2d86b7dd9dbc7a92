// ABOUTME: HTTP client for the remote journal entry API.
// ABOUTME: Lists entries page by page, creates entries, and deletes them by id.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/2389-research/gratitude/internal/models"
)

// PageSize is the number of entries requested per list call.
const PageSize = 3

// Query parameter and header names of the backend contract.
const (
	ParamNumEntries        = "num_entries"
	ParamExclusiveStartKey = "exclusive_start_key"
	ParamEntryID           = "entry_id"
	HeaderAPIKey           = "x-api-key"
)

// Page is one list response.
type Page struct {
	Items            []models.Entry `json:"Items"`
	LastEvaluatedKey models.Entry   `json:"LastEvaluatedKey,omitempty"`
}

// NextToken returns the continuation token for the following page.
// ok is false when the backend signalled the end of data or the key holds no
// entry id.
func (p *Page) NextToken() (token string, ok bool) {
	if p.LastEvaluatedKey == nil {
		return "", false
	}
	token = models.StripEntryIDPrefix(p.LastEvaluatedKey.StringAttr(models.AttrSortKey))
	return token, token != ""
}

// createPayload is the JSON body sent when creating an entry.
type createPayload struct {
	Entry string `json:"entry"`
}

// Client talks to the journal API with a static API key.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListEntries fetches one page of PageSize entries. An empty startKey fetches
// from the beginning.
func (c *Client) ListEntries(ctx context.Context, startKey string) (*Page, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, &FetchError{Op: OpList, Err: err}
	}

	q := req.URL.Query()
	q.Set(ParamNumEntries, strconv.Itoa(PageSize))
	if startKey != "" {
		q.Set(ParamExclusiveStartKey, startKey)
	}
	req.URL.RawQuery = q.Encode()

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: OpList, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, statusError(OpList, resp)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &FetchError{Op: OpList, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if _, ok := page.NextToken(); page.LastEvaluatedKey != nil && !ok {
		return nil, &FetchError{Op: OpList, Err: ErrMalformedKey}
	}

	_, more := page.NextToken()
	c.log.Debug().
		Str("start_key", startKey).
		Int("items", len(page.Items)).
		Bool("more", more).
		Dur("took", time.Since(start)).
		Msg("listed entries")
	return &page, nil
}

// CreateEntry posts a new entry. Only transport failures are reported; the
// response status and body are not inspected.
func (c *Client) CreateEntry(ctx context.Context, content string) error {
	body, err := json.Marshal(createPayload{Entry: content})
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(body))
	if err != nil {
		return &FetchError{Op: OpCreate, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Op: OpCreate, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Msg("create entry returned error status")
	} else {
		c.log.Debug().Int("status", resp.StatusCode).Int("bytes", len(content)).Msg("created entry")
	}
	return nil
}

// DeleteEntry removes the entry with the given id.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, nil)
	if err != nil {
		return &FetchError{Op: OpDelete, Err: err}
	}
	q := req.URL.Query()
	q.Set(ParamEntryID, id)
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Op: OpDelete, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return statusError(OpDelete, resp)
	}
	c.log.Debug().Str("entry_id", id).Msg("deleted entry")
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)
	return req, nil
}

func statusError(op string, resp *http.Response) *FetchError {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return &FetchError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
}
