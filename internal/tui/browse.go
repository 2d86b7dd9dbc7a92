// ABOUTME: Full-screen entry browser with browsing and composing views.
// ABOUTME: Runs the browser reducer inside bubbletea and executes its requests as commands.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/2389-research/gratitude/internal/browser"
	"github.com/2389-research/gratitude/internal/models"
)

// outcomeMsg carries the result of a request issued by the reducer.
type outcomeMsg struct {
	ev browser.Event
}

// ctxHolder shares a cancellable context across bubbletea model copies so
// that quitting aborts in-flight requests.
type ctxHolder struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newCtxHolder() *ctxHolder {
	ctx, cancel := context.WithCancel(context.Background())
	return &ctxHolder{ctx: ctx, cancel: cancel}
}

var selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

// BrowserModel is the bubbletea model for the entry browser.
type BrowserModel struct {
	client   browser.EntryAPI
	state    browser.State
	list     ListView
	compose  textarea.Model
	spinner  spinner.Model
	help     help.Model
	ctx      *ctxHolder
	log      zerolog.Logger
	quitting bool
}

// NewBrowserModel creates a browser that loads its first page on Init.
func NewBrowserModel(client browser.EntryAPI, log zerolog.Logger) BrowserModel {
	ctx := newCtxHolder()

	ta := textarea.New()
	ta.Placeholder = "Entry"
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(8)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return BrowserModel{
		client:  client,
		state:   browser.Initial(),
		list:    NewListView(client, ctx),
		compose: ta,
		spinner: s,
		help:    help.New(),
		ctx:     ctx,
		log:     log,
	}
}

// State returns the current browser state.
func (m BrowserModel) State() browser.State {
	return m.state
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return func() tea.Msg { return browser.Mounted{} }
}

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list = m.list.SetWidth(msg.Width)
		m.help.Width = msg.Width
		if msg.Width > 4 {
			m.compose.SetWidth(msg.Width - 4)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.state.Mode == models.Composing {
			return m.updateComposing(msg)
		}
		return m.updateBrowsing(msg)

	case browser.Event:
		return m.dispatch(msg)

	case outcomeMsg:
		if m.ctx.ctx.Err() != nil {
			return m, nil
		}
		return m.dispatch(msg.ev)

	case loadMoreMsg:
		return m.dispatch(browser.LoadMore{})

	case entryDeletedMsg:
		m.log.Info().Str("entry_id", msg.id).Msg("entry deleted")
		m.list, _ = m.list.Update(msg)
		return m.dispatch(browser.EntryDeleted{})

	case deleteFailedMsg:
		m.log.Error().Err(msg.err).Str("entry_id", msg.id).Msg("delete failed")
		m.list, _ = m.list.Update(msg)
		return m.dispatch(browser.DeleteFailed{Err: msg.err})

	case spinner.TickMsg:
		if m.state.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state.Mode == models.Composing {
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BrowserModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctx.cancel()
	return m, tea.Quit
}

func (m BrowserModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Write):
		focus := m.compose.Focus()
		next, cmd := m.dispatch(browser.SetMode{Mode: models.Composing})
		return next, tea.Batch(cmd, focus)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateComposing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Entries):
		m.compose.Blur()
		return m.dispatch(browser.SetMode{Mode: models.Browsing})
	case key.Matches(msg, keys.Submit):
		content := m.compose.Value()
		m.compose.Reset()
		return m.dispatch(browser.Submit{Content: content})
	}

	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(msg)
	return m, cmd
}

// dispatch runs the reducer and turns the resulting request into a command.
func (m BrowserModel) dispatch(ev browser.Event) (tea.Model, tea.Cmd) {
	wasLoading := m.state.Loading()

	next, req := browser.Reduce(m.state, ev)
	m.state = next
	m.list = m.list.SetEntries(next.Entries, next.Cursor)

	if err := failure(ev); err != nil {
		m.log.Warn().Err(err).Msg("request failed")
	}
	if req.Kind == browser.RequestNone {
		return m, nil
	}

	m.log.Debug().
		Str("request", req.Kind.String()).
		Uint64("generation", req.Generation).
		Str("start_key", req.StartKey).
		Msg("issuing request")

	client := m.client
	ctx := m.ctx.ctx
	cmd := func() tea.Msg {
		return outcomeMsg{ev: browser.Execute(ctx, client, req)}
	}
	if !wasLoading {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func failure(ev browser.Event) error {
	switch ev := ev.(type) {
	case browser.PageFailed:
		return ev.Err
	case browser.Created:
		return ev.Err
	}
	return nil
}

// View implements tea.Model.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   GRATITUDE"))

	if m.state.Mode == models.Composing {
		b.WriteString(titleStyle.Render(" - Write Entry"))
		b.WriteString("\n\n")
		b.WriteString(m.compose.View())
		b.WriteString("\n")
		m.writeStatus(&b)
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView(composingHelp()))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(" - Entries"))
	b.WriteString("\n\n")
	b.WriteString(m.list.View())
	m.writeStatus(&b)
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(browsingHelp(m.state.CanLoadMore())))
	b.WriteString("\n")
	return b.String()
}

func (m BrowserModel) writeStatus(b *strings.Builder) {
	switch {
	case m.state.Loading():
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading...")
		b.WriteString("\n")
	case m.state.Err != nil:
		b.WriteString(errorStyle.Render("✗ " + m.state.Err.Error()))
		b.WriteString("\n")
	case m.state.Mode == models.Browsing && m.state.Cursor.IsExhausted():
		b.WriteString(stepStyle.Render("No more entries."))
		b.WriteString("\n")
	}
}
