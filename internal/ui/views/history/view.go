package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	historydto "chemviz/internal/modules/history/dto"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/ui/theme"
)

const emptyText = "No history records found."

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	Load(ctx context.Context) (historydto.ListingOutput, error)
	Reset(ctx context.Context)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Listing historydto.ListingOutput
	Err     error
	epoch   int
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    HistoryPort
	table   viewport.Model
	spinner spinner.Model
	listing historydto.ListingOutput
	loading bool
	errText string
	epoch   int
	width   int
	height  int
}

func New(port HistoryPort) Model {
	vp := viewport.New(0, 0)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, table: vp, spinner: sp}
}

// Refresh starts a fetch. The previous rows stay on screen until it lands.
func (m *Model) Refresh() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m Model) Loading() bool { return m.loading }

// Stale reports whether msg answers a fetch issued before the last Clear.
func (m Model) Stale(msg LoadedMsg) bool { return msg.epoch != m.epoch }

// Clear drops everything shown for the previous user. Results of fetches
// issued before Clear are ignored when they arrive.
func (m Model) Clear() (Model, tea.Cmd) {
	m.epoch++
	m.listing = historydto.ListingOutput{}
	m.loading = false
	m.errText = ""
	m.table.SetContent("")
	port := m.port
	return m, func() tea.Msg {
		port.Reset(context.Background())
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.Width = max(m.width-6, 10)
		m.table.Height = max(m.height-8, 3)
		m.table.SetContent(m.renderRows())
		return m, nil

	case LoadedMsg:
		if m.Stale(msg) {
			return m, nil
		}
		m.loading = false
		m.listing = msg.Listing
		m.errText = ""
		if msg.Err != nil {
			m.errText = apperrors.UserMessage(msg.Err)
		}
		m.table.SetContent(m.renderRows())
		m.table.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Upload History") + "\n\n")
	switch {
	case m.loading && !m.listing.Loaded:
		sb.WriteString(m.spinner.View() + " Loading history…")
	case m.listing.Empty:
		sb.WriteString(theme.Muted.Render(emptyText))
	default:
		sb.WriteString(m.table.View())
	}
	if m.loading && m.listing.Loaded {
		sb.WriteString("\n" + m.spinner.View() + theme.Muted.Render(" refreshing…"))
	}
	if m.errText != "" {
		sb.WriteString("\n" + theme.Error.Render(m.errText))
	}
	sb.WriteString("\n\n" + theme.Muted.Render("r: refresh  esc: close"))
	return theme.PaneActive.Width(max(m.width-2, 20)).Render(sb.String())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderRows() string {
	if len(m.listing.Records) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-6s %-22s %8s %10s %10s %10s",
		"#", "Uploaded", "Records", "Flowrate", "Pressure", "Temp")) + "\n")
	for _, r := range m.listing.Records {
		fmt.Fprintf(&sb, "%-6d %-22s %8s %10.2f %10.2f %10.2f\n",
			r.ID,
			humanize.Time(r.UploadedAt),
			humanize.Comma(int64(r.TotalEquipment)),
			r.AvgFlowrate, r.AvgPressure, r.AvgTemperature)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) loadCmd() tea.Cmd {
	port, epoch := m.port, m.epoch
	return func() tea.Msg {
		listing, err := port.Load(context.Background())
		return LoadedMsg{Listing: listing, Err: err, epoch: epoch}
	}
}
