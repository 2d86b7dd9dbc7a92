// ABOUTME: Interactive TUI wizard for connecting to a journal API.
// ABOUTME: 2-step bubbletea model collecting the API URL and API key, then validating them.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// URLPlaceholder shows the shape of a deployed entries endpoint.
const URLPlaceholder = "https://<api-id>.execute-api.<region>.amazonaws.com/prod/entries"

// Step represents the current wizard step.
type Step int

const (
	StepAPIURL Step = iota
	StepAPIKey
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for connection validation.
type ValidateFn func(ctx context.Context, apiURL, apiKey string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [2]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	inputErr      string
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(apiURL, apiKey string) SetupModel {
	urlInput := textinput.New()
	urlInput.Placeholder = URLPlaceholder
	urlInput.Focus()
	urlInput.Width = 60
	if apiURL != "" {
		urlInput.SetValue(apiURL)
	}

	keyInput := textinput.New()
	keyInput.Placeholder = "your-api-key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Width = 60
	if apiKey != "" {
		keyInput.SetValue(apiKey)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepAPIURL,
		inputs:     [2]textinput.Model{urlInput, keyInput},
		spinner:    s,
		validateFn: ValidateConnection,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepAPIURL, StepAPIKey:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)

		// There is no default endpoint; trailing slashes are dropped.
		if m.step == StepAPIURL {
			val := strings.TrimRight(strings.TrimSpace(m.inputs[0].Value()), "/")
			m.inputs[0].SetValue(val)
			if val == "" {
				return m, nil
			}
			if err := checkEntriesURL(val); err != "" {
				m.inputErr = err
				return m, nil
			}
		}
		if m.step == StepAPIKey && strings.TrimSpace(m.inputs[1].Value()) == "" {
			return m, nil
		}
		m.inputErr = ""

		m.inputs[idx].Blur()

		switch m.step {
		case StepAPIURL:
			m.step = StepAPIKey
			m.inputs[1].Focus()
			return m, textinput.Blink
		case StepAPIKey:
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	m.inputErr = ""
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

// checkEntriesURL returns a message describing why raw cannot be used as the
// entries endpoint, or "" if it can.
func checkEntriesURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "URL must start with http:// or https://"
	}
	if u.Host == "" {
		return "URL must include a host"
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "URL must not include a query string; paging parameters are added per request"
	}
	return ""
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	apiURL := m.inputs[0].Value()
	apiKey := m.inputs[1].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, apiURL, apiKey)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   GRATITUDE"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Connect to your journal API.\n\n")

	switch m.step {
	case StepAPIURL:
		b.WriteString(stepStyle.Render("Step 1 of 2: API URL"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("The entries endpoint. Entries are listed, written, and deleted here."))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")
		if m.inputErr != "" {
			b.WriteString(errorStyle.Render("✗ " + m.inputErr))
			b.WriteString("\n")
		}

	case StepAPIKey:
		b.WriteString(fmt.Sprintf("  API URL: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 2: API Key"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Sent as the x-api-key header on every request."))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  API URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  API Key: %s\n\n", strings.Repeat("*", len(m.inputs[1].Value()))))
		b.WriteString(m.spinner.View())
		b.WriteString(" Validating connection (fetching the first page of entries)...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Connected!"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Run 'gratitude' to browse entries or 'gratitude write' to add one."))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (apiURL, apiKey string) {
	return m.inputs[0].Value(), m.inputs[1].Value()
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
