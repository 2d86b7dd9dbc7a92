// ABOUTME: Tests for the synchronous browser driver.
// ABOUTME: Uses a scripted fake API and the fixture server over httptest.
package browser

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/2389-research/gratitude/internal/api"
	"github.com/2389-research/gratitude/internal/models"
	"github.com/2389-research/gratitude/internal/server"
)

// fakeAPI replays scripted pages and records every call.
type fakeAPI struct {
	pages     []*api.Page
	listErr   error
	createErr error
	deleteErr error

	listCalls   []string
	createCalls []string
	deleteCalls []string
}

func (f *fakeAPI) ListEntries(_ context.Context, startKey string) (*api.Page, error) {
	f.listCalls = append(f.listCalls, startKey)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.pages) == 0 {
		return &api.Page{}, nil
	}
	p := f.pages[0]
	f.pages = f.pages[1:]
	return p, nil
}

func (f *fakeAPI) CreateEntry(_ context.Context, content string) error {
	f.createCalls = append(f.createCalls, content)
	return f.createErr
}

func (f *fakeAPI) DeleteEntry(_ context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func TestBrowserScenarioMountLoadMoreExhaust(t *testing.T) {
	fake := &fakeAPI{pages: []*api.Page{
		page("42", "A", "B", "C"),
		page("", "D"),
	}}
	b := New(fake)
	ctx := context.Background()

	if err := b.Mount(ctx); err != nil {
		t.Fatalf("Mount error: %v", err)
	}
	s := b.Snapshot()
	equalIDs(t, s.Entries, "A", "B", "C")
	if s.Cursor != models.TokenCursor("42") {
		t.Errorf("expected token(42), got %s", s.Cursor)
	}

	if err := b.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore error: %v", err)
	}
	s = b.Snapshot()
	equalIDs(t, s.Entries, "A", "B", "C", "D")
	if !s.Cursor.IsExhausted() {
		t.Errorf("expected exhausted, got %s", s.Cursor)
	}

	if err := b.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore error: %v", err)
	}
	if len(fake.listCalls) != 2 {
		t.Errorf("expected no request after exhaustion, got calls %v", fake.listCalls)
	}
	if fake.listCalls[0] != "" || fake.listCalls[1] != "42" {
		t.Errorf("unexpected start keys %v", fake.listCalls)
	}
}

func TestBrowserSubmitRefetchesFirstPageOnce(t *testing.T) {
	fake := &fakeAPI{pages: []*api.Page{
		page("42", "A", "B", "C"),
		page("", "H", "A"),
	}}
	b := New(fake)
	ctx := context.Background()
	_ = b.Mount(ctx)

	if err := b.SubmitEntry(ctx, "hello"); err != nil {
		t.Fatalf("SubmitEntry error: %v", err)
	}
	if len(fake.createCalls) != 1 || fake.createCalls[0] != "hello" {
		t.Errorf("expected one create for 'hello', got %v", fake.createCalls)
	}
	if len(fake.listCalls) != 2 || fake.listCalls[1] != "" {
		t.Errorf("expected one refetch without start key, got %v", fake.listCalls)
	}
	equalIDs(t, b.Snapshot().Entries, "H", "A")
}

func TestBrowserSubmitFailureRestores(t *testing.T) {
	fake := &fakeAPI{pages: []*api.Page{page("42", "A")}}
	b := New(fake)
	ctx := context.Background()
	_ = b.Mount(ctx)

	fake.createErr = errors.New("network down")
	err := b.SubmitEntry(ctx, "hello")
	if err == nil {
		t.Fatal("expected error from failed create")
	}
	s := b.Snapshot()
	equalIDs(t, s.Entries, "A")
	if s.Err == nil {
		t.Error("expected error recorded in state")
	}
	if len(fake.listCalls) != 1 {
		t.Errorf("expected no refetch after failed create, got %v", fake.listCalls)
	}
}

func TestBrowserDeleteEntry(t *testing.T) {
	fake := &fakeAPI{pages: []*api.Page{
		page("42", "A", "B", "C"),
		page("", "D"),
		page("45", "B", "C", "D"),
	}}
	b := New(fake)
	ctx := context.Background()
	_ = b.Mount(ctx)
	_ = b.LoadMore(ctx)

	if err := b.DeleteEntry(ctx, "A"); err != nil {
		t.Fatalf("DeleteEntry error: %v", err)
	}
	if len(fake.deleteCalls) != 1 || fake.deleteCalls[0] != "A" {
		t.Errorf("unexpected delete calls %v", fake.deleteCalls)
	}
	s := b.Snapshot()
	equalIDs(t, s.Entries, "B", "C", "D")
	if s.Cursor != models.TokenCursor("45") {
		t.Errorf("expected token(45), got %s", s.Cursor)
	}
}

func TestBrowserDeleteFailureKeepsList(t *testing.T) {
	fake := &fakeAPI{pages: []*api.Page{page("42", "A")}, deleteErr: errors.New("404")}
	b := New(fake)
	ctx := context.Background()
	_ = b.Mount(ctx)

	if err := b.DeleteEntry(ctx, "A"); err == nil {
		t.Fatal("expected delete error")
	}
	equalIDs(t, b.Snapshot().Entries, "A")
	if len(fake.listCalls) != 1 {
		t.Errorf("expected no refetch after failed delete, got %v", fake.listCalls)
	}
}

func TestBrowserListFailure(t *testing.T) {
	fake := &fakeAPI{listErr: &api.FetchError{Op: api.OpList, Status: 500}}
	b := New(fake)

	err := b.Mount(context.Background())
	var fe *api.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if b.Snapshot().Loading() {
		t.Error("expected nothing in flight after failure")
	}
}

func TestBrowserLoadAllStopsOnKeyWithoutEntryID(t *testing.T) {
	noID := &api.Page{
		Items:            []models.Entry{entry("B")},
		LastEvaluatedKey: models.Entry{"PK1": map[string]any{"S": "ENTRY"}},
	}
	fake := &fakeAPI{pages: []*api.Page{page("42", "A"), noID, page("43", "C")}}
	b := New(fake)

	if err := b.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if len(fake.listCalls) != 2 {
		t.Errorf("expected 2 list calls, got %v", fake.listCalls)
	}
	equalIDs(t, b.Snapshot().Entries, "A", "B")
	if !b.Snapshot().Cursor.IsExhausted() {
		t.Errorf("expected exhausted cursor, got %s", b.Snapshot().Cursor)
	}
}

func TestBrowserLoadAllStopsOnMalformedKeyError(t *testing.T) {
	fake := &fakeAPI{
		pages:   []*api.Page{},
		listErr: &api.FetchError{Op: api.OpList, Err: api.ErrMalformedKey},
	}
	b := New(fake)

	err := b.LoadAll(context.Background())
	if !errors.Is(err, api.ErrMalformedKey) {
		t.Fatalf("expected ErrMalformedKey, got %v", err)
	}
	if len(fake.listCalls) != 1 {
		t.Errorf("expected a single list call, got %v", fake.listCalls)
	}
	if len(b.Snapshot().Entries) != 0 {
		t.Error("expected nothing appended")
	}
}

func TestBrowserLoadAllStopsWhenCursorRepeats(t *testing.T) {
	fake := &fakeAPI{pages: []*api.Page{page("42", "A"), page("42", "B"), page("42", "C")}}
	b := New(fake)

	err := b.LoadAll(context.Background())
	if !errors.Is(err, ErrNoProgress) {
		t.Fatalf("expected ErrNoProgress, got %v", err)
	}
	if len(fake.listCalls) != 2 {
		t.Errorf("expected 2 list calls, got %v", fake.listCalls)
	}
}

func TestBrowserSnapshotIsIsolated(t *testing.T) {
	fake := &fakeAPI{pages: []*api.Page{page("42", "A")}}
	b := New(fake)
	_ = b.Mount(context.Background())

	s := b.Snapshot()
	s.Entries[0] = entry("Z")
	equalIDs(t, b.Snapshot().Entries, "A")
}

func TestBrowserAgainstFixtureServer(t *testing.T) {
	store := server.NewStore()
	ts := httptest.NewServer(server.New(store, "k").Router())
	defer ts.Close()

	for _, c := range []string{"one", "two", "three", "four", "five"} {
		if _, err := store.Put(c); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	b := New(api.NewClient(ts.URL+server.DefaultBasePath, "k"))
	ctx := context.Background()

	if err := b.Mount(ctx); err != nil {
		t.Fatalf("Mount error: %v", err)
	}
	if n := len(b.Snapshot().Entries); n != 3 {
		t.Fatalf("expected 3 entries after mount, got %d", n)
	}

	if err := b.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	s := b.Snapshot()
	if len(s.Entries) != 5 || !s.Cursor.IsExhausted() {
		t.Fatalf("expected 5 entries and exhausted cursor, got %d %s", len(s.Entries), s.Cursor)
	}
	if s.Entries[0].Content() != "five" || s.Entries[4].Content() != "one" {
		t.Errorf("expected newest first, got %q..%q", s.Entries[0].Content(), s.Entries[4].Content())
	}

	if err := b.SubmitEntry(ctx, "six"); err != nil {
		t.Fatalf("SubmitEntry error: %v", err)
	}
	s = b.Snapshot()
	if len(s.Entries) != 3 || s.Entries[0].Content() != "six" {
		t.Fatalf("expected first page headed by new entry, got %v", s.Entries)
	}

	if err := b.DeleteEntry(ctx, s.Entries[0].ID()); err != nil {
		t.Fatalf("DeleteEntry error: %v", err)
	}
	s = b.Snapshot()
	if s.Entries[0].Content() != "five" {
		t.Errorf("expected deleted entry gone, got head %q", s.Entries[0].Content())
	}
}
