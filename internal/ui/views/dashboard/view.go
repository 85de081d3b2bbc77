package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	uploaddto "chemviz/internal/modules/upload/dto"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/ui/chart"
	"chemviz/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type UploadPort interface {
	SelectFile(ctx context.Context, path string) (uploaddto.StateOutput, error)
	Run(ctx context.Context) (uploaddto.StateOutput, error)
	Reset(ctx context.Context) (uploaddto.StateOutput, error)
	State(ctx context.Context) uploaddto.StateOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// StateMsg carries the controller state after a select, run or reset.
type StateMsg struct {
	State uploaddto.StateOutput
	Err   error
	epoch int
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     UploadPort
	path     textinput.Model
	spinner  spinner.Model
	state    uploaddto.StateOutput
	username string
	alert    string
	epoch    int
	width    int
	height   int
}

func New(port UploadPort) Model {
	ti := textinput.New()
	ti.Placeholder = "path/to/equipment.csv"
	ti.CharLimit = 4096
	ti.Prompt = "file: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		path:    ti,
		spinner: sp,
		state:   port.State(context.Background()),
	}
}

func (m *Model) SetUser(username string) { m.username = username }

// Editing reports whether the path input has focus, in which case global
// key bindings must yield to allow free typing.
func (m Model) Editing() bool { return m.path.Focused() }

func (m Model) Uploading() bool { return m.state.State == "uploading" }

// Stale reports whether msg answers a command issued before the last Clear.
func (m Model) Stale(msg StateMsg) bool { return msg.epoch != m.epoch }

// Clear forgets the signed-out user's file, stats and alert, and resets the
// controller. An upload still in flight is reset once its result arrives.
func (m Model) Clear() (Model, tea.Cmd) {
	m.epoch++
	m.username = ""
	m.alert = ""
	m.path.SetValue("")
	m.path.Blur()
	m.state = uploaddto.StateOutput{State: "idle", CanSelect: true}
	return m, m.resetCmd()
}

// Select submits path as the pending file.
func (m Model) Select(path string) (Model, tea.Cmd) {
	if !m.state.CanSelect {
		return m, nil
	}
	m.path.SetValue(path)
	return m, m.selectCmd(strings.TrimSpace(path))
}

// Run starts the upload when the controller allows it. The spinner is shown
// right away; the controller state arrives with the StateMsg.
func (m Model) Run() (Model, tea.Cmd) {
	if !m.state.CanRun {
		return m, nil
	}
	m.alert = ""
	m.path.Blur()
	m.state.State = "uploading"
	m.state.CanRun = false
	m.state.CanSelect = false
	return m, tea.Batch(m.spinner.Tick, m.runCmd())
}

func (m Model) Reset() (Model, tea.Cmd) {
	if m.Uploading() {
		return m, nil
	}
	m.alert = ""
	m.path.SetValue("")
	return m, m.resetCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.path.Width = max(m.width-16, 20)
		return m, nil

	case StateMsg:
		if m.Stale(msg) {
			if msg.State.State != "uploading" && msg.State.State != "idle" {
				return m, m.resetCmd()
			}
			return m, nil
		}
		m.state = msg.State
		if msg.Err != nil {
			m.alert = apperrors.UserMessage(msg.Err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Uploading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.path.Focused() {
			switch msg.String() {
			case "esc":
				m.path.Blur()
				return m, nil
			case "enter":
				m.path.Blur()
				return m.Select(m.path.Value())
			}
			var cmd tea.Cmd
			m.path, cmd = m.path.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "f", "/":
			if !m.state.CanSelect {
				return m, nil
			}
			cmd := m.path.Focus()
			return m, cmd
		case "r":
			return m.Run()
		case "x":
			m.alert = ""
		case "c":
			return m.Reset()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	greeting := "Equipment dashboard"
	if m.username != "" {
		greeting = "Welcome, " + m.username
	}
	sb.WriteString(theme.Title.Render(greeting) + "\n\n")

	if m.alert != "" {
		sb.WriteString(theme.Alert.Render(m.alert+"  "+theme.Muted.Render("(x to dismiss)")) + "\n\n")
	}

	sb.WriteString(m.renderUploadControl() + "\n\n")

	if m.state.Stats == nil {
		sb.WriteString(theme.Muted.Render("Upload a CSV file to see statistics."))
		return sb.String()
	}
	stats := m.state.Stats
	cards := []string{
		card("Total Records", humanize.Comma(int64(stats.Records))),
		card("Avg Flowrate", fmt.Sprintf("%.2f", stats.Flow)),
		card("Avg Pressure", fmt.Sprintf("%.2f", stats.Pressure)),
		card("Avg Temperature", fmt.Sprintf("%.2f", stats.Temperature)),
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n")
	sb.WriteString(theme.Title.Render("Equipment Type Distribution") + "\n")
	sb.WriteString(chart.Bars(stats.Chart, max(m.width-8, 20)))
	return sb.String()
}

// ─── private ─────────────────────────────────────────────────────────────────

func card(label, value string) string {
	body := theme.Muted.Render(label) + "\n" + theme.Hot.Render(value)
	return theme.Card.Width(20).Render(body)
}

func (m Model) renderUploadControl() string {
	var line string
	switch {
	case m.path.Focused():
		line = m.path.View()
	case m.state.FileName != "":
		line = theme.Muted.Render("file: ") + fmt.Sprintf("%s (%s)", m.state.FileName, humanize.IBytes(uint64(m.state.FileSize)))
	default:
		line = theme.Muted.Render("file: none selected")
	}

	var action string
	switch {
	case m.Uploading():
		action = m.spinner.View() + " Uploading…"
	case m.state.CanRun:
		action = theme.Good.Render("r: upload")
	default:
		action = theme.Muted.Render("r: upload")
	}
	hint := theme.Muted.Render("f: choose file  c: clear")
	if !m.state.CanSelect {
		hint = theme.Muted.Render("file selection locked while uploading")
	}
	return line + "\n" + action + "   " + hint
}

func (m Model) selectCmd(path string) tea.Cmd {
	port, epoch := m.port, m.epoch
	return func() tea.Msg {
		state, err := port.SelectFile(context.Background(), path)
		return StateMsg{State: state, Err: err, epoch: epoch}
	}
}

func (m Model) runCmd() tea.Cmd {
	port, epoch := m.port, m.epoch
	return func() tea.Msg {
		state, err := port.Run(context.Background())
		return StateMsg{State: state, Err: err, epoch: epoch}
	}
}

func (m Model) resetCmd() tea.Cmd {
	port, epoch := m.port, m.epoch
	return func() tea.Msg {
		state, err := port.Reset(context.Background())
		return StateMsg{State: state, Err: err, epoch: epoch}
	}
}
