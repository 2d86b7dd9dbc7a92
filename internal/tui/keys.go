// ABOUTME: Key bindings for the entry browser and its help line.
// ABOUTME: Browsing and composing views expose different binding sets.
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	More    key.Binding
	Delete  key.Binding
	Write   key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Entries key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	More:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more entries")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Write:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write entry")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit entry")),
	Entries: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "show entries")),
}

// browsingHelp returns the bindings shown under the entry list. The load-more
// binding is hidden once there are no further pages.
func browsingHelp(canLoadMore bool) []key.Binding {
	b := []key.Binding{keys.Up, keys.Down}
	if canLoadMore {
		b = append(b, keys.More)
	}
	return append(b, keys.Delete, keys.Write, keys.Quit)
}

func composingHelp() []key.Binding {
	return []key.Binding{keys.Submit, keys.Entries}
}
