// ABOUTME: Entry browser state machine as a pure reducer over immutable snapshots.
// ABOUTME: Each event yields the next state and at most one request to issue.
package browser

import (
	"github.com/2389-research/gratitude/internal/api"
	"github.com/2389-research/gratitude/internal/models"
)

// State is an immutable snapshot of the browser. Reduce never mutates the
// slices of the state it is given.
type State struct {
	Entries []models.Entry
	Cursor  models.Cursor
	Mode    models.ViewMode

	// Generation increases on every optimistic reset. Responses tagged with an
	// older generation are discarded.
	Generation uint64
	// InFlight counts requests of the current generation awaiting a response.
	InFlight int
	// Err is the most recent failure, cleared by the next successful round trip.
	Err error

	saved *snapshot
}

// snapshot is the list state captured before an optimistic reset.
type snapshot struct {
	entries []models.Entry
	cursor  models.Cursor
}

// Initial returns the state of a freshly mounted browser.
func Initial() State {
	return State{
		Entries: []models.Entry{},
		Cursor:  models.EmptyCursor(),
		Mode:    models.Browsing,
	}
}

// Loading reports whether any request of the current generation is pending.
func (s State) Loading() bool {
	return s.InFlight > 0
}

// CanLoadMore reports whether a load-more request would reach the network.
func (s State) CanLoadMore() bool {
	return !s.Cursor.IsExhausted()
}

// Event is an input to Reduce: a user action or a request outcome.
type Event interface {
	isEvent()
}

// Mounted is dispatched once when the browser is first shown.
type Mounted struct{}

// LoadMore asks for the page after the current cursor.
type LoadMore struct{}

// Submit creates an entry with the given content. No validation is applied.
type Submit struct {
	Content string
}

// EntryDeleted is signalled by the list view after a successful delete.
type EntryDeleted struct{}

// DeleteFailed is signalled by the list view when a delete request fails.
type DeleteFailed struct {
	Err error
}

// SetMode switches between browsing and composing.
type SetMode struct {
	Mode models.ViewMode
}

// PageLoaded carries a list response.
type PageLoaded struct {
	Generation uint64
	Page       *api.Page
}

// PageFailed carries a failed list request.
type PageFailed struct {
	Generation uint64
	Err        error
}

// Created carries the outcome of a create request.
type Created struct {
	Generation uint64
	Err        error
}

func (Mounted) isEvent()      {}
func (LoadMore) isEvent()     {}
func (Submit) isEvent()       {}
func (EntryDeleted) isEvent() {}
func (DeleteFailed) isEvent() {}
func (SetMode) isEvent()      {}
func (PageLoaded) isEvent()   {}
func (PageFailed) isEvent()   {}
func (Created) isEvent()      {}

// RequestKind names the network action a transition asks for.
type RequestKind int

const (
	RequestNone RequestKind = iota
	RequestFetch
	RequestCreate
)

func (k RequestKind) String() string {
	switch k {
	case RequestFetch:
		return "fetch"
	case RequestCreate:
		return "create"
	default:
		return "none"
	}
}

// Request describes a network call to make. StartKey is empty when the
// request must start from the first page.
type Request struct {
	Kind       RequestKind
	Generation uint64
	StartKey   string
	Content    string
}

// Reduce applies ev to s.
func Reduce(s State, ev Event) (State, Request) {
	switch ev := ev.(type) {
	case Mounted:
		return fetchPage(s, false)

	case LoadMore:
		return fetchPage(s, true)

	case SetMode:
		s.Mode = ev.Mode
		return s, Request{}

	case Submit:
		// A create already in flight holds the last list the user saw.
		saved := s.saved
		if saved == nil {
			saved = &snapshot{entries: s.Entries, cursor: s.Cursor}
		}
		s = reset(s)
		s.saved = saved
		s.InFlight = 1
		return s, Request{Kind: RequestCreate, Generation: s.Generation, Content: ev.Content}

	case Created:
		if ev.Generation != s.Generation {
			return s, Request{}
		}
		s.InFlight--
		saved := s.saved
		s.saved = nil
		if ev.Err != nil {
			if saved != nil {
				s.Entries = saved.entries
				s.Cursor = saved.cursor
			}
			s.Err = ev.Err
			return s, Request{}
		}
		return fetchPage(s, false)

	case EntryDeleted:
		s = reset(s)
		return fetchPage(s, false)

	case DeleteFailed:
		s.Err = ev.Err
		return s, Request{}

	case PageLoaded:
		if ev.Generation != s.Generation {
			return s, Request{}
		}
		s.InFlight--
		s.Err = nil
		if ev.Page == nil {
			return s, Request{}
		}
		entries := make([]models.Entry, 0, len(s.Entries)+len(ev.Page.Items))
		entries = append(entries, s.Entries...)
		entries = append(entries, ev.Page.Items...)
		s.Entries = entries
		if token, ok := ev.Page.NextToken(); ok {
			s.Cursor = models.TokenCursor(token)
		} else {
			s.Cursor = models.ExhaustedCursor()
		}
		return s, Request{}

	case PageFailed:
		if ev.Generation != s.Generation {
			return s, Request{}
		}
		s.InFlight--
		s.Err = ev.Err
		return s, Request{}
	}
	return s, Request{}
}

func fetchPage(s State, useCursor bool) (State, Request) {
	if useCursor && s.Cursor.IsExhausted() {
		return s, Request{}
	}
	startKey := ""
	if useCursor {
		startKey = s.Cursor.StartKey()
	}
	s.InFlight++
	return s, Request{Kind: RequestFetch, Generation: s.Generation, StartKey: startKey}
}

// reset clears the list and starts a new generation so that responses to
// requests issued before the reset are ignored.
func reset(s State) State {
	s.Entries = []models.Entry{}
	s.Cursor = models.EmptyCursor()
	s.Generation++
	s.InFlight = 0
	s.Err = nil
	s.saved = nil
	return s
}
