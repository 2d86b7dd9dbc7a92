// ABOUTME: Tests for entry attribute helpers and cursor states.
// ABOUTME: Covers id prefix stripping, missing attributes, and cursor start keys.
package models

import (
	"encoding/json"
	"testing"
)

func TestEntryFromBackendJSON(t *testing.T) {
	raw := `{"PK1":{"S":"ENTRY"},"SK1":{"S":"ENTRY_ID#01HZX"},"ENTRY_CONTENT":{"S":"grateful for coffee"},"EXTRA":{"N":"7"}}`

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if e.ID() != "01HZX" {
		t.Errorf("expected id 01HZX, got %q", e.ID())
	}
	if e.Content() != "grateful for coffee" {
		t.Errorf("expected content, got %q", e.Content())
	}
	if _, ok := e["EXTRA"]; !ok {
		t.Error("expected unknown attributes to be preserved")
	}
}

func TestEntryMissingAttributes(t *testing.T) {
	e := Entry{"SK1": "not-a-map"}
	if e.ID() != "" {
		t.Errorf("expected empty id, got %q", e.ID())
	}
	if e.Content() != "" {
		t.Errorf("expected empty content, got %q", e.Content())
	}
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("abc", "hello", "2024-06-01T12:00:00Z")
	if e.StringAttr(AttrSortKey) != "ENTRY_ID#abc" {
		t.Errorf("unexpected sort key %q", e.StringAttr(AttrSortKey))
	}
	if e.ID() != "abc" {
		t.Errorf("expected id abc, got %q", e.ID())
	}
	if e.CreatedAt() != "2024-06-01T12:00:00Z" {
		t.Errorf("unexpected created at %q", e.CreatedAt())
	}
}

func TestStripEntryIDPrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ENTRY_ID#42", "42"},
		{"42", "42"},
		{"ENTRY_ID#", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripEntryIDPrefix(tt.in); got != tt.want {
			t.Errorf("StripEntryIDPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCursorStartKey(t *testing.T) {
	if EmptyCursor().StartKey() != "" {
		t.Error("empty cursor should have no start key")
	}
	if ExhaustedCursor().StartKey() != "" {
		t.Error("exhausted cursor should have no start key")
	}
	if TokenCursor("42").StartKey() != "42" {
		t.Error("token cursor should expose its token")
	}
	if !ExhaustedCursor().IsExhausted() || TokenCursor("x").IsExhausted() {
		t.Error("IsExhausted mismatch")
	}
}
