// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keyrace/internal/metrics"
	"github.com/verte-zerg/keyrace/internal/model"
	"github.com/verte-zerg/keyrace/internal/stats"
)

const (
	tabOverview = iota
	tabRaces
	tabHistory
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	session  model.Session
	history  model.SessionHistory
	lifetime model.LifetimeStats
	insights []model.Insight

	tabs      []string
	activeTab int

	overview viewport.Model
	races    table.Model
	hist     table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model over loaded documents.
func NewModel(session model.Session, history model.SessionHistory, lifetime model.LifetimeStats) *Model {
	m := &Model{
		session:  session,
		history:  history,
		lifetime: lifetime,
		insights: metrics.Insights(session, history),
		tabs:     []string{"Overview", "Races", "History"},
	}
	m.overview = viewport.New(80, 20)
	m.races = raceTable(session.Races)
	m.hist = historyTable(history)
	m.refreshOverview()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			return m, nil
		case "shift+tab", "left", "h":
			m.activeTab = (m.activeTab + len(m.tabs) - 1) % len(m.tabs)
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabOverview:
			m.overview, cmd = m.overview.Update(msg)
		case tabRaces:
			m.races, cmd = m.races.Update(msg)
		case tabHistory:
			m.hist, cmd = m.hist.Update(msg)
		}
		return m, cmd
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	nav := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			nav[i] = activeNavStyle.Render(tab)
		} else {
			nav[i] = inactiveNavStyle.Render(tab)
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, nav...)

	var body string
	switch m.activeTab {
	case tabOverview:
		body = m.overview.View()
	case tabRaces:
		body = m.races.View()
	case tabHistory:
		body = m.hist.View()
	}
	footer := headerStyle.Render("tab switch · q quit")
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layout() {
	bodyHeight := m.height - 5
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	width := m.width
	if width < 20 {
		width = 20
	}
	m.overview.Width = width
	m.overview.Height = bodyHeight
	m.races.SetHeight(bodyHeight)
	m.hist.SetHeight(bodyHeight)
	m.refreshOverview()
}

func (m *Model) refreshOverview() {
	var buf bytes.Buffer
	if err := stats.RenderLifetime(&buf, m.lifetime); err != nil {
		return
	}
	if err := stats.RenderSession(&buf, m.session, m.insights); err != nil {
		return
	}
	if len(m.history.Sessions) > 1 {
		avgs := make([]float64, 0, len(m.history.Sessions))
		for _, s := range m.history.Sessions {
			avgs = append(avgs, s.AverageWPM)
		}
		plotWidth := m.width - 6
		if err := stats.PlotSeries(&buf, "Avg WPM by session",
			[]stats.Series{{Name: "Avg WPM", Values: avgs}}, plotWidth, 8); err != nil {
			return
		}
	}
	m.overview.SetContent(buf.String())
}

func raceTable(races []model.RaceRecord) table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 6},
		{Title: "Passage", Width: 20},
		{Title: "WPM", Width: 6},
		{Title: "Acc", Width: 5},
		{Title: "Errors", Width: 6},
		{Title: "Place", Width: 6},
	}
	rows := make([]table.Row, 0, len(races))
	for _, r := range races {
		rows = append(rows, table.Row{
			r.Date.Local().Format("15:04"),
			r.Title,
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%d", r.Errors),
			fmt.Sprintf("%d/%d", r.Placing, len(r.Opponents)+1),
		})
	}
	return table.New(table.WithColumns(columns), table.WithRows(rows), table.WithFocused(true))
}

func historyTable(history model.SessionHistory) table.Model {
	columns := []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Races", Width: 6},
		{Title: "Avg WPM", Width: 8},
		{Title: "Peak", Width: 6},
		{Title: "Consistency", Width: 11},
	}
	rows := make([]table.Row, 0, len(history.Sessions))
	for _, s := range history.Sessions {
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.Races),
			fmt.Sprintf("%.1f", s.AverageWPM),
			fmt.Sprintf("%.1f", s.PeakWPM),
			fmt.Sprintf("%.0f%%", s.ConsistencyPct),
		})
	}
	return table.New(table.WithColumns(columns), table.WithRows(rows))
}
