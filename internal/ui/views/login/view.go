package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "chemviz/internal/modules/session/dto"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type LoginPort interface {
	Login(ctx context.Context, username, password string) (sessiondto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoggedInMsg struct {
	Session sessiondto.SessionOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       LoginPort
	inputs     [2]textinput.Model
	focus      int
	spinner    spinner.Model
	submitting bool
	errText    string
	notice     string
	width      int
	height     int
}

func New(port LoginPort) Model {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 150
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, inputs: [2]textinput.Model{user, pass}, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the form and shows notice above it, used when the app routes
// back here after a logout or an expired session.
func (m Model) Reset(notice string) (Model, tea.Cmd) {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.submitting = false
	m.errText = ""
	m.notice = notice
	cmd := m.inputs[0].Focus()
	return m, cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoggedInMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errText = apperrors.UserMessage(msg.Err)
			m.inputs[1].SetValue("")
			cmd := m.setFocus(1)
			return m, cmd
		}
		m.errText = ""
		m.notice = ""
		m.inputs[1].SetValue("")
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			cmd := m.setFocus((m.focus + 1) % len(m.inputs))
			return m, cmd
		case "shift+tab", "up":
			cmd := m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, cmd
		case "enter":
			if m.focus == 0 {
				cmd := m.setFocus(1)
				return m, cmd
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("ChemViz sign in") + "\n\n")
	if m.notice != "" {
		sb.WriteString(theme.Hot.Render(m.notice) + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("Username") + "\n" + m.inputs[0].View() + "\n\n")
	sb.WriteString(theme.Muted.Render("Password") + "\n" + m.inputs[1].View() + "\n\n")
	switch {
	case m.submitting:
		sb.WriteString(m.spinner.View() + " Signing in…")
	case m.errText != "":
		sb.WriteString(theme.Error.Render(m.errText))
	default:
		sb.WriteString(theme.Muted.Render("enter: sign in  tab: next field"))
	}
	form := theme.PaneActive.Width(44).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	if username == "" || password == "" {
		m.errText = "Username and password are required"
		return m, nil
	}
	m.submitting = true
	m.errText = ""
	return m, tea.Batch(m.spinner.Tick, m.loginCmd(username, password))
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := m.port.Login(context.Background(), username, password)
		return LoggedInMsg{Session: session, Err: err}
	}
}
