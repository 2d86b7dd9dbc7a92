// ABOUTME: Core data models for journal entries, pagination cursors, and view modes.
// ABOUTME: Entries are opaque backend records; helpers read only what rendering needs.
package models

import (
	"strings"
)

// EntryIDPrefix is the literal prefix the backend puts in front of every entry id
// inside sort keys.
const EntryIDPrefix = "ENTRY_ID#"

// Attribute names the client reads from backend records.
const (
	AttrPartitionKey = "PK1"
	AttrSortKey      = "SK1"
	AttrContent      = "ENTRY_CONTENT"
	AttrCreatedAt    = "CREATED_AT"
)

// Entry is one journal record exactly as returned by the backend.
// Values are typed attribute maps, e.g. {"SK1": {"S": "ENTRY_ID#01H..."}}.
type Entry map[string]any

// StringAttr returns the "S" member of the named typed attribute, or "" when absent.
func (e Entry) StringAttr(name string) string {
	attr, ok := e[name].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := attr["S"].(string)
	return s
}

// ID returns the entry id used for deletion, with the sort key prefix removed.
func (e Entry) ID() string {
	return StripEntryIDPrefix(e.StringAttr(AttrSortKey))
}

// Content returns the journal text of the entry.
func (e Entry) Content() string {
	return e.StringAttr(AttrContent)
}

// CreatedAt returns the raw creation timestamp if the backend sent one.
func (e Entry) CreatedAt() string {
	return e.StringAttr(AttrCreatedAt)
}

// NewEntry builds a backend-shaped record for the given id and content.
func NewEntry(id, content, createdAt string) Entry {
	e := Entry{
		AttrPartitionKey: map[string]any{"S": "ENTRY"},
		AttrSortKey:      map[string]any{"S": EntryIDPrefix + id},
		AttrContent:      map[string]any{"S": content},
	}
	if createdAt != "" {
		e[AttrCreatedAt] = map[string]any{"S": createdAt}
	}
	return e
}

// StripEntryIDPrefix removes a leading EntryIDPrefix from key.
func StripEntryIDPrefix(key string) string {
	return strings.TrimPrefix(key, EntryIDPrefix)
}

// CursorKind distinguishes the three pagination states.
type CursorKind int

const (
	// CursorEmpty means no page has been fetched yet.
	CursorEmpty CursorKind = iota
	// CursorToken means the backend returned a continuation token.
	CursorToken
	// CursorExhausted means the backend signalled there are no more pages.
	CursorExhausted
)

// Cursor is the client-side pagination position.
type Cursor struct {
	Kind  CursorKind
	Token string
}

// EmptyCursor returns the cursor for a browsing session with no pages loaded.
func EmptyCursor() Cursor { return Cursor{Kind: CursorEmpty} }

// TokenCursor returns a cursor positioned after the entry with the given id.
func TokenCursor(token string) Cursor { return Cursor{Kind: CursorToken, Token: token} }

// ExhaustedCursor returns the cursor for a session that has reached the last page.
func ExhaustedCursor() Cursor { return Cursor{Kind: CursorExhausted} }

// IsExhausted reports whether no further pages exist.
func (c Cursor) IsExhausted() bool { return c.Kind == CursorExhausted }

// StartKey returns the continuation token to send, or "" when none applies.
func (c Cursor) StartKey() string {
	if c.Kind == CursorToken {
		return c.Token
	}
	return ""
}

func (c Cursor) String() string {
	switch c.Kind {
	case CursorToken:
		return "token(" + c.Token + ")"
	case CursorExhausted:
		return "exhausted"
	default:
		return "empty"
	}
}

// ViewMode selects which sub-view the browser renders.
type ViewMode int

const (
	Browsing ViewMode = iota
	Composing
)

func (m ViewMode) String() string {
	if m == Composing {
		return "composing"
	}
	return "browsing"
}
