package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	historydto "chemviz/internal/modules/history/dto"
	reportdto "chemviz/internal/modules/report/dto"
	sessiondto "chemviz/internal/modules/session/dto"
	uploaddto "chemviz/internal/modules/upload/dto"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/ui/components"
	"chemviz/internal/ui/theme"
	dashboardview "chemviz/internal/ui/views/dashboard"
	historyview "chemviz/internal/ui/views/history"
	loginview "chemviz/internal/ui/views/login"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Login(ctx context.Context, username, password string) (sessiondto.SessionOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) sessiondto.SessionOutput
}

type uploadPort interface {
	SelectFile(ctx context.Context, path string) (uploaddto.StateOutput, error)
	Run(ctx context.Context) (uploaddto.StateOutput, error)
	Reset(ctx context.Context) (uploaddto.StateOutput, error)
	State(ctx context.Context) uploaddto.StateOutput
}

type historyPort interface {
	Load(ctx context.Context) (historydto.ListingOutput, error)
	Reset(ctx context.Context)
}

type reportPort interface {
	Export(ctx context.Context, outputDir string) (reportdto.ExportOutput, error)
}

// ─── screens ─────────────────────────────────────────────────────────────────

type screen int

const (
	screenLogin screen = iota
	screenDashboard
)

// ─── async messages ──────────────────────────────────────────────────────────

type reportDoneMsg struct {
	out reportdto.ExportOutput
	err error
}

type loggedOutMsg struct{ err error }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Choose  key.Binding
	Run     key.Binding
	Clear   key.Binding
	Dismiss key.Binding
	History key.Binding
	Report  key.Binding
	Logout  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Choose:  key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "choose csv")),
		Run:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "upload")),
		Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss alert")),
		History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Report:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "download report")),
		Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "commands")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Run, k.History, k.Report, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Choose, k.Run, k.Clear, k.Dismiss},
		{k.History, k.Report, k.Logout},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes between the login form and
// the dashboard, owns the history overlay, and sends every expired-session
// error back to the login form.
type Model struct {
	session   sessionPort
	report    reportPort
	outputDir string

	loginView     loginview.Model
	dashboardView dashboardview.Model
	historyView   historyview.Model

	screen      screen
	showHistory bool
	keys        keyMap
	help        help.Model
	showHelp    bool
	palette     components.Palette
	exporting   bool
	status      string
	width       int
	height      int
}

func NewModel(session sessionPort, upload uploadPort, history historyPort, report reportPort, outputDir string) Model {
	m := Model{
		session:       session,
		report:        report,
		outputDir:     outputDir,
		loginView:     loginview.New(session),
		dashboardView: dashboardview.New(upload),
		historyView:   historyview.New(history),
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "ready",
	}
	if current := session.Current(context.Background()); current.Present {
		m.screen = screenDashboard
		m.dashboardView.SetUser(current.Username)
		m.status = "signed in as " + current.Username
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenLogin {
		return m.loginView.Init()
	}
	return nil
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The open palette takes the keyboard only; async results keep flowing.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(keyMsg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case loginview.LoggedInMsg:
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		if msg.Err != nil {
			return m, cmd
		}
		m.screen = screenDashboard
		m.dashboardView.SetUser(msg.Session.Username)
		m.status = "signed in as " + msg.Session.Username
		return m, cmd

	case dashboardview.StateMsg:
		if m.dashboardView.Stale(msg) {
			var cmd tea.Cmd
			m.dashboardView, cmd = m.dashboardView.Update(msg)
			return m, cmd
		}
		if apperrors.SessionExpired(msg.Err) {
			var cmd tea.Cmd
			m, cmd = m.toLogin(apperrors.UserMessage(msg.Err))
			return m, cmd
		}
		var cmd tea.Cmd
		m.dashboardView, cmd = m.dashboardView.Update(msg)
		if msg.Err == nil && msg.State.Stats != nil {
			m.status = "analysis complete: " + msg.State.FileName
		}
		return m, cmd

	case historyview.LoadedMsg:
		if m.historyView.Stale(msg) {
			return m, nil
		}
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		if apperrors.SessionExpired(msg.Err) {
			m, cmd = m.toLogin(apperrors.UserMessage(msg.Err))
		}
		return m, cmd

	case reportDoneMsg:
		m.exporting = false
		switch {
		case apperrors.SessionExpired(msg.err):
			var cmd tea.Cmd
			m, cmd = m.toLogin(apperrors.UserMessage(msg.err))
			return m, cmd
		case msg.err != nil:
			m.status = "report: " + apperrors.UserMessage(msg.err)
		default:
			m.status = fmt.Sprintf("report saved to %s (%s)", msg.out.Path, humanize.IBytes(uint64(msg.out.Size)))
		}
		return m, nil

	case loggedOutMsg:
		if msg.err != nil {
			m.status = "logout: " + msg.err.Error()
		}
		var cmd tea.Cmd
		m, cmd = m.toLogin("Signed out")
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenLogin {
			var cmd tea.Cmd
			m.loginView, cmd = m.loginView.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.showHistory {
			switch msg.String() {
			case "esc", "h":
				m.showHistory = false
				return m, nil
			case "r":
				cmd := m.historyView.Refresh()
				return m, cmd
			}
			var cmd tea.Cmd
			m.historyView, cmd = m.historyView.Update(msg)
			return m, cmd
		}
		if m.dashboardView.Editing() {
			var cmd tea.Cmd
			m.dashboardView, cmd = m.dashboardView.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		case "h":
			return m.openHistory()
		case "p":
			return m.exportReport(m.outputDir)
		case "L":
			return m, m.logoutCmd()
		}
		var cmd tea.Cmd
		m.dashboardView, cmd = m.dashboardView.Update(msg)
		return m, cmd
	}

	// Spinner ticks and cursor blinks go to every sub-view; each ignores
	// what it does not own.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.palette, cmd = m.palette.Update(msg)
	cmds = append(cmds, cmd)
	m.loginView, cmd = m.loginView.Update(msg)
	cmds = append(cmds, cmd)
	m.dashboardView, cmd = m.dashboardView.Update(msg)
	cmds = append(cmds, cmd)
	m.historyView, cmd = m.historyView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.screen == screenLogin {
		return m.loginView.View()
	}
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.showHistory:
		content = lipgloss.NewStyle().Height(contentH).Render(m.historyView.View())
	default:
		content = lipgloss.NewStyle().Padding(0, 1).Height(contentH).Render(m.dashboardView.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderHeader() string {
	bar := theme.Hot.Render(" ChemViz ") + theme.Muted.Render(" chemical equipment analytics")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.exporting {
		left = theme.Hot.Render("● exporting report") + "  " + left
	}
	right := theme.Muted.Render("?:help  :::commands  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" || m.screen == screenLogin {
		return m, nil
	}
	verb, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "select":
		if rest == "" {
			m.status = "usage: select <path>"
			return m, nil
		}
		var cmd tea.Cmd
		m.dashboardView, cmd = m.dashboardView.Select(rest)
		return m, cmd
	case "run":
		var cmd tea.Cmd
		m.dashboardView, cmd = m.dashboardView.Run()
		return m, cmd
	case "clear":
		var cmd tea.Cmd
		m.dashboardView, cmd = m.dashboardView.Reset()
		return m, cmd
	case "history":
		return m.openHistory()
	case "report":
		dir := m.outputDir
		if rest != "" {
			dir = rest
		}
		return m.exportReport(dir)
	case "logout":
		return m, m.logoutCmd()
	default:
		m.status = "unknown command: " + verb
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) openHistory() (Model, tea.Cmd) {
	m.showHistory = true
	cmd := m.historyView.Refresh()
	return m, cmd
}

func (m Model) exportReport(dir string) (Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	m.exporting = true
	m.status = "downloading report…"
	return m, m.exportCmd(dir)
}

// toLogin routes back to the login form and wipes what the previous user
// left on the dashboard and in the history table. The session itself has
// already been cleared by whichever module saw the rejection.
func (m Model) toLogin(notice string) (Model, tea.Cmd) {
	m.screen = screenLogin
	m.showHistory = false
	m.showHelp = false
	m.exporting = false
	m.status = notice
	var loginCmd, dashCmd, histCmd tea.Cmd
	m.loginView, loginCmd = m.loginView.Reset(notice)
	m.dashboardView, dashCmd = m.dashboardView.Clear()
	m.historyView, histCmd = m.historyView.Clear()
	return m, tea.Batch(loginCmd, dashCmd, histCmd)
}

func (m *Model) propagateSize() {
	full := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	body := tea.WindowSizeMsg{Width: m.width, Height: m.height - 4}
	m.loginView, _ = m.loginView.Update(full)
	m.dashboardView, _ = m.dashboardView.Update(body)
	m.historyView, _ = m.historyView.Update(body)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) exportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.report.Export(context.Background(), dir)
		return reportDoneMsg{out: out, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.session.Logout(context.Background())}
	}
}
