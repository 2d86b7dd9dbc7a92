// ABOUTME: Tests for the fixture backend router and in-memory store.
// ABOUTME: Exercises pagination keys, create validation, delete, and auth.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2389-research/gratitude/internal/api"
)

func newTestServer(t *testing.T) (*Store, *api.Client) {
	t.Helper()
	store := NewStore()
	ts := httptest.NewServer(New(store, "test-key").Router())
	t.Cleanup(ts.Close)
	return store, api.NewClient(ts.URL+DefaultBasePath, "test-key")
}

func TestStoreQueryPages(t *testing.T) {
	store := NewStore()
	var created []string
	for _, c := range []string{"one", "two", "three", "four"} {
		id, err := store.Put(c)
		if err != nil {
			t.Fatalf("Put error: %v", err)
		}
		created = append(created, id)
	}

	items, lastKey := store.Query("", 3)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Content() != "four" || items[2].Content() != "two" {
		t.Errorf("expected newest first, got %q..%q", items[0].Content(), items[2].Content())
	}
	if lastKey != created[1] {
		t.Errorf("expected last key %q, got %q", created[1], lastKey)
	}

	items, lastKey = store.Query(lastKey, 3)
	if len(items) != 1 || items[0].Content() != "one" {
		t.Fatalf("expected final page [one], got %v", items)
	}
	if lastKey != "" {
		t.Errorf("expected no last key on final page, got %q", lastKey)
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()
	id, _ := store.Put("x")
	if !store.Delete(id) {
		t.Error("expected delete to report existing entry")
	}
	if store.Delete(id) {
		t.Error("expected second delete to report missing entry")
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d", store.Len())
	}
}

func TestServerRoundTrip(t *testing.T) {
	store, client := newTestServer(t)
	ctx := context.Background()

	for _, c := range []string{"a", "b", "c", "d"} {
		if err := client.CreateEntry(ctx, c); err != nil {
			t.Fatalf("CreateEntry error: %v", err)
		}
	}
	if store.Len() != 4 {
		t.Fatalf("expected 4 stored entries, got %d", store.Len())
	}

	first, err := client.ListEntries(ctx, "")
	if err != nil {
		t.Fatalf("ListEntries error: %v", err)
	}
	if len(first.Items) != api.PageSize {
		t.Fatalf("expected %d items, got %d", api.PageSize, len(first.Items))
	}
	token, ok := first.NextToken()
	if !ok {
		t.Fatal("expected continuation token on first page")
	}

	second, err := client.ListEntries(ctx, token)
	if err != nil {
		t.Fatalf("ListEntries error: %v", err)
	}
	if len(second.Items) != 1 || second.Items[0].Content() != "a" {
		t.Fatalf("expected final page [a], got %v", second.Items)
	}
	if _, ok := second.NextToken(); ok {
		t.Error("expected no continuation token on last page")
	}

	if err := client.DeleteEntry(ctx, second.Items[0].ID()); err != nil {
		t.Fatalf("DeleteEntry error: %v", err)
	}
	if store.Len() != 3 {
		t.Errorf("expected 3 entries after delete, got %d", store.Len())
	}
}

func TestServerRejectsWrongAPIKey(t *testing.T) {
	store := NewStore()
	ts := httptest.NewServer(New(store, "right").Router())
	defer ts.Close()

	client := api.NewClient(ts.URL+DefaultBasePath, "wrong")
	_, err := client.ListEntries(context.Background(), "")
	var fe *api.FetchError
	if !errors.As(err, &fe) || fe.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestServerCreateRequiresEntry(t *testing.T) {
	store := NewStore()
	ts := httptest.NewServer(New(store, "k").Router())
	defer ts.Close()

	req, _ := http.NewRequest("POST", ts.URL+DefaultBasePath, strings.NewReader(`{"text":"x"}`))
	req.Header.Set("x-api-key", "k")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if store.Len() != 0 {
		t.Error("expected nothing stored")
	}
}

func TestServerBadNumEntries(t *testing.T) {
	ts := httptest.NewServer(New(NewStore(), "k").Router())
	defer ts.Close()

	req, _ := http.NewRequest("GET", ts.URL+DefaultBasePath+"?num_entries=zero", nil)
	req.Header.Set("x-api-key", "k")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServerDeleteMissing(t *testing.T) {
	_, client := newTestServer(t)
	err := client.DeleteEntry(context.Background(), "nope")
	var fe *api.FetchError
	if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestServerEmptyEntryIsStored(t *testing.T) {
	store, client := newTestServer(t)
	if err := client.CreateEntry(context.Background(), ""); err != nil {
		t.Fatalf("CreateEntry error: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected empty entry to be stored, got %d entries", store.Len())
	}
}

func TestServerHealth(t *testing.T) {
	ts := httptest.NewServer(New(NewStore(), "k", WithBasePath("/prod/entries")).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
