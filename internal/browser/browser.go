// ABOUTME: Synchronous driver that runs the entry browser reducer against the API.
// ABOUTME: Executes each emitted request and feeds its outcome back until idle.
package browser

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/2389-research/gratitude/internal/api"
	"github.com/2389-research/gratitude/internal/models"
)

// EntryAPI is the backend the browser talks to.
type EntryAPI interface {
	ListEntries(ctx context.Context, startKey string) (*api.Page, error)
	CreateEntry(ctx context.Context, content string) error
	DeleteEntry(ctx context.Context, id string) error
}

// Execute performs req against client and returns the event describing its outcome.
// It returns nil for RequestNone.
func Execute(ctx context.Context, client EntryAPI, req Request) Event {
	switch req.Kind {
	case RequestFetch:
		page, err := client.ListEntries(ctx, req.StartKey)
		if err != nil {
			return PageFailed{Generation: req.Generation, Err: err}
		}
		return PageLoaded{Generation: req.Generation, Page: page}
	case RequestCreate:
		return Created{Generation: req.Generation, Err: client.CreateEntry(ctx, req.Content)}
	}
	return nil
}

// ErrNoProgress is returned by LoadAll when the backend hands back the same
// continuation key twice.
var ErrNoProgress = errors.New("pagination did not advance")

// Browser owns a State and serializes every transition through a mutex.
// Requests run with the lock released.
type Browser struct {
	mu     sync.Mutex
	state  State
	client EntryAPI
	log    zerolog.Logger
}

// Option configures optional Browser dependencies.
type Option func(*Browser)

// WithLogger sets the logger used for transition tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Browser) {
		b.log = log
	}
}

// New creates a browser in its initial state. Call Mount to load the first page.
func New(client EntryAPI, opts ...Option) *Browser {
	b := &Browser{
		state:  Initial(),
		client: client,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Snapshot returns a copy of the current state.
func (b *Browser) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.state
	s.Entries = append([]models.Entry(nil), b.state.Entries...)
	return s
}

// Dispatch reduces ev and runs the resulting chain of requests to completion.
// It returns the first request failure, which is also recorded in the state.
func (b *Browser) Dispatch(ctx context.Context, ev Event) error {
	req := b.apply(ev)

	var firstErr error
	for req.Kind != RequestNone {
		b.log.Debug().
			Str("request", req.Kind.String()).
			Uint64("generation", req.Generation).
			Str("start_key", req.StartKey).
			Msg("issuing request")

		outcome := Execute(ctx, b.client, req)
		if err := outcomeErr(outcome); err != nil && firstErr == nil {
			firstErr = err
		}
		req = b.apply(outcome)
	}
	return firstErr
}

func (b *Browser) apply(ev Event) Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, req := Reduce(b.state, ev)
	b.state = next
	return req
}

func outcomeErr(ev Event) error {
	switch ev := ev.(type) {
	case PageFailed:
		return ev.Err
	case Created:
		return ev.Err
	}
	return nil
}

// Mount loads the first page.
func (b *Browser) Mount(ctx context.Context) error {
	return b.Dispatch(ctx, Mounted{})
}

// LoadMore loads the page after the current cursor. It does nothing once the
// cursor is exhausted.
func (b *Browser) LoadMore(ctx context.Context) error {
	return b.Dispatch(ctx, LoadMore{})
}

// SubmitEntry creates an entry and then reloads the first page.
func (b *Browser) SubmitEntry(ctx context.Context, content string) error {
	return b.Dispatch(ctx, Submit{Content: content})
}

// EntryDeleted clears the list and reloads the first page.
func (b *Browser) EntryDeleted(ctx context.Context) error {
	return b.Dispatch(ctx, EntryDeleted{})
}

// DeleteEntry deletes the entry with the given id and, on success, signals
// EntryDeleted exactly once.
func (b *Browser) DeleteEntry(ctx context.Context, id string) error {
	if err := b.client.DeleteEntry(ctx, id); err != nil {
		_ = b.Dispatch(ctx, DeleteFailed{Err: err})
		return err
	}
	return b.EntryDeleted(ctx)
}

// LoadAll pages until the cursor is exhausted or a request fails. It returns
// ErrNoProgress if a page leaves the cursor where it was.
func (b *Browser) LoadAll(ctx context.Context) error {
	for {
		before := b.Snapshot().Cursor
		if before.IsExhausted() {
			return nil
		}
		if err := b.LoadMore(ctx); err != nil {
			return err
		}
		if b.Snapshot().Cursor == before {
			b.log.Warn().Str("cursor", before.String()).Msg("pagination did not advance")
			return ErrNoProgress
		}
	}
}
