// ABOUTME: Entry list view that renders loaded entries and issues deletes.
// ABOUTME: Signals load-more requests and delete completion back to its parent model.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/gratitude/internal/models"
)

// Deleter removes an entry on the backend.
type Deleter interface {
	DeleteEntry(ctx context.Context, id string) error
}

// loadMoreMsg asks the parent to fetch the next page.
type loadMoreMsg struct{}

// entryDeletedMsg reports a successful delete. It is sent exactly once per
// successful delete request.
type entryDeletedMsg struct {
	id string
}

// deleteFailedMsg reports a failed delete request.
type deleteFailedMsg struct {
	id  string
	err error
}

// ListView renders entries with a selection and handles delete confirmation.
type ListView struct {
	entries    []models.Entry
	cursor     models.Cursor
	selected   int
	confirming bool
	deleting   bool
	deleter    Deleter
	ctx        *ctxHolder
	width      int
}

// NewListView creates an empty list view that deletes through d.
func NewListView(d Deleter, ctx *ctxHolder) ListView {
	return ListView{
		cursor:  models.EmptyCursor(),
		deleter: d,
		ctx:     ctx,
		width:   80,
	}
}

// SetEntries replaces what the view renders, keeping the selection in range.
func (l ListView) SetEntries(entries []models.Entry, cursor models.Cursor) ListView {
	l.entries = entries
	l.cursor = cursor
	if l.selected >= len(entries) {
		l.selected = len(entries) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	return l
}

// SetWidth sets the render width.
func (l ListView) SetWidth(w int) ListView {
	if w > 0 {
		l.width = w
	}
	return l
}

// Selected returns the highlighted entry, if any.
func (l ListView) Selected() (models.Entry, bool) {
	if len(l.entries) == 0 {
		return nil, false
	}
	return l.entries[l.selected], true
}

// Update handles list navigation, load-more, and delete keys, plus delete results.
func (l ListView) Update(msg tea.Msg) (ListView, tea.Cmd) {
	switch msg := msg.(type) {
	case entryDeletedMsg, deleteFailedMsg:
		l.deleting = false
		return l, nil

	case tea.KeyMsg:
		if l.confirming {
			l.confirming = false
			if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && msg.Runes[0] == 'y' {
				return l.startDelete()
			}
			return l, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if l.selected > 0 {
				l.selected--
			}
		case key.Matches(msg, keys.Down):
			if l.selected < len(l.entries)-1 {
				l.selected++
			} else if l.cursor.Kind == models.CursorToken {
				return l, loadMore
			}
		case key.Matches(msg, keys.More):
			return l, loadMore
		case key.Matches(msg, keys.Delete):
			if _, ok := l.Selected(); ok && !l.deleting {
				l.confirming = true
			}
		}
	}
	return l, nil
}

func loadMore() tea.Msg {
	return loadMoreMsg{}
}

func (l ListView) startDelete() (ListView, tea.Cmd) {
	e, ok := l.Selected()
	if !ok {
		return l, nil
	}
	l.deleting = true
	id := e.ID()
	d := l.deleter
	ctx := l.ctx.ctx
	return l, func() tea.Msg {
		if err := d.DeleteEntry(ctx, id); err != nil {
			return deleteFailedMsg{id: id, err: err}
		}
		return entryDeletedMsg{id: id}
	}
}

// View renders the entries, one line each.
func (l ListView) View() string {
	var b strings.Builder

	if len(l.entries) == 0 {
		b.WriteString(promptStyle.Render("No entries."))
		b.WriteString("\n")
	}

	lineWidth := l.width - 4
	if lineWidth < 10 {
		lineWidth = 10
	}
	for i, e := range l.entries {
		line := fmt.Sprintf("%d. %s", i+1, oneLine(e.Content()))
		line = truncate(line, lineWidth)
		if i == l.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	switch {
	case l.deleting:
		b.WriteString(promptStyle.Render("Deleting..."))
		b.WriteString("\n")
	case l.confirming:
		b.WriteString(errorStyle.Render("Delete this entry? [y/N]"))
		b.WriteString("\n")
	}

	return b.String()
}

// oneLine collapses whitespace so an entry renders on a single line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
