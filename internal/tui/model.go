// Package tui provides the Bubble Tea race interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keyrace/internal/engine"
	"github.com/verte-zerg/keyrace/internal/metrics"
	"github.com/verte-zerg/keyrace/internal/model"
	"github.com/verte-zerg/keyrace/internal/session"
)

const (
	countdownInterval = time.Second
	botTickInterval   = 100 * time.Millisecond
)

// Tick messages carry the race sequence number so a tick scheduled for an
// earlier race is recognized as stale and dropped.
type countdownTickMsg struct {
	seq int
}

type botTickMsg struct {
	seq int
	at  time.Time
}

type autosaveTickMsg struct{}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	countdownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	placingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BC96F")).Bold(true)
	insightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
)

// Model implements the Bubble Tea race UI.
type Model struct {
	race *engine.Race
	mgr  *session.Manager

	input textinput.Model
	bar   progress.Model

	width  int
	height int

	seq         int
	lastBotTick time.Time

	record   *model.RaceRecord
	insights []model.Insight
}

// NewModel constructs a race UI model over a prepared race.
func NewModel(race *engine.Race, mgr *session.Manager) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 64
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	return &Model{
		race:  race,
		mgr:   mgr,
		input: input,
		bar:   bar,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.scheduleAutosave()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = barWidth(m.width)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case countdownTickMsg:
		return m.handleCountdownTick(msg)
	case botTickMsg:
		return m.handleBotTick(msg)
	case autosaveTickMsg:
		now := time.Now()
		ctx := context.Background()
		// Finalization first: a timed-out session must be summarized before
		// the autosave looks at the dirty flag.
		m.mgr.CheckTimeout(ctx, now)
		m.mgr.Autosave(ctx)
		return m, m.scheduleAutosave()
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.mgr.Flush(context.Background())
		return m, tea.Quit
	}
	switch m.race.Phase() {
	case engine.PhaseIdle, engine.PhaseFinished:
		switch msg.String() {
		case "q", "esc":
			m.mgr.Flush(context.Background())
			return m, tea.Quit
		case "enter":
			return m, m.startRace()
		}
		return m, nil
	case engine.PhaseCounting:
		if msg.String() == "esc" {
			m.resetRace()
		}
		return m, nil
	case engine.PhaseRunning:
		if msg.String() == "esc" {
			m.resetRace()
			return m, nil
		}
		return m, m.handleTyping(msg)
	default:
		return m, nil
	}
}

// handleTyping routes the keystroke through the text input, then feeds the
// resulting value to the race. A strict-mode reject restores the previous
// visible value.
func (m *Model) handleTyping(msg tea.KeyMsg) tea.Cmd {
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	value := m.input.Value()
	if value == prev {
		return cmd
	}
	switch m.race.Type(value, time.Now()) {
	case engine.VerdictReject:
		m.input.SetValue(prev)
		m.input.CursorEnd()
	case engine.VerdictCommit:
		m.input.SetValue("")
		if m.race.Phase() == engine.PhaseFinished {
			m.finalizeRace()
		}
	}
	return cmd
}

func (m *Model) startRace() tea.Cmd {
	if !m.race.Start() {
		return nil
	}
	m.seq++
	m.record = nil
	m.insights = nil
	m.input.SetValue("")
	m.input.Focus()
	return m.scheduleCountdown()
}

func (m *Model) resetRace() {
	m.race.Reset()
	m.seq++ // outstanding ticks for the old race become stale
	m.input.SetValue("")
}

func (m *Model) handleCountdownTick(msg countdownTickMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq || m.race.Phase() != engine.PhaseCounting {
		return m, nil
	}
	now := time.Now()
	m.race.TickCountdown(now)
	switch m.race.Phase() {
	case engine.PhaseCounting:
		return m, m.scheduleCountdown()
	case engine.PhaseRunning:
		m.lastBotTick = now
		return m, m.scheduleBotTick()
	default:
		return m, nil
	}
}

func (m *Model) handleBotTick(msg botTickMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq || m.race.Phase() != engine.PhaseRunning {
		return m, nil
	}
	delta := msg.at.Sub(m.lastBotTick)
	m.lastBotTick = msg.at
	m.race.TickBots(msg.at, delta)
	if m.race.Phase() == engine.PhaseFinished {
		m.finalizeRace()
		return m, nil
	}
	return m, m.scheduleBotTick()
}

func (m *Model) finalizeRace() {
	rec := m.race.Record()
	if rec == nil {
		return
	}
	ctx := context.Background()
	m.record = rec
	m.mgr.RecordRace(ctx, *rec, time.Now())
	m.insights = metrics.Insights(m.mgr.Session(), m.mgr.History())
}

func (m *Model) scheduleCountdown() tea.Cmd {
	seq := m.seq
	return tea.Tick(countdownInterval, func(time.Time) tea.Msg {
		return countdownTickMsg{seq: seq}
	})
}

func (m *Model) scheduleBotTick() tea.Cmd {
	seq := m.seq
	return tea.Tick(botTickInterval, func(at time.Time) tea.Msg {
		return botTickMsg{seq: seq, at: at}
	})
}

func (m *Model) scheduleAutosave() tea.Cmd {
	return tea.Tick(session.AutosavePeriod, func(time.Time) tea.Msg {
		return autosaveTickMsg{}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.race.Phase() {
	case engine.PhaseIdle:
		body = m.viewIdle()
	case engine.PhaseCounting:
		body = m.viewCountdown()
	case engine.PhaseRunning:
		body = m.viewRunning()
	case engine.PhaseFinished:
		body = m.viewFinished()
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) viewIdle() string {
	words := m.race.Words()
	preview := strings.Join(words, " ")
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	return strings.Join([]string{
		titleStyle.Render("keyrace"),
		"",
		pendingStyle.Render(preview),
		"",
		footerStyle.Render("enter start · q quit"),
	}, "\n")
}

func (m *Model) viewCountdown() string {
	return countdownStyle.Render(fmt.Sprintf("%d", m.race.Countdown()))
}

func (m *Model) viewRunning() string {
	eval := m.race.Evaluator()
	styled := buildStyledWords(m.race.Words(), eval.Statuses(), eval.Buffer())
	passageView := wrapStyledWords(styled, contentWidth(m.width))

	now := time.Now()
	sections := []string{
		passageView,
		"",
		m.input.View(),
		"",
		m.viewRacers(),
		footerStyle.Render(fmt.Sprintf("%.1f WPM · %d%% · %d errors",
			m.race.LiveWPM(now), eval.Accuracy(), eval.Errors())),
	}
	return strings.Join(sections, "\n")
}

func (m *Model) viewRacers() string {
	passageLen := m.race.PassageLength()
	human := float64(m.race.HumanProgress())
	var b strings.Builder
	b.WriteString(m.racerLine("you", human, passageLen))
	for _, bot := range m.race.Bots() {
		b.WriteString(m.racerLine(fmt.Sprintf("%s (%.0f)", bot.Name, bot.WPM), bot.ProgressChars, passageLen))
	}
	return b.String()
}

func (m *Model) racerLine(name string, progressChars float64, passageLen int) string {
	pct := 0.0
	if passageLen > 0 {
		pct = progressChars / float64(passageLen)
	}
	return fmt.Sprintf("%-24s %s\n", name, m.bar.ViewAs(pct))
}

func (m *Model) viewFinished() string {
	rec := m.record
	if rec == nil {
		rec = m.race.Record()
	}
	if rec == nil {
		return footerStyle.Render("enter race again · q quit")
	}
	s := m.mgr.Session()
	lines := []string{
		placingStyle.Render(placeBanner(rec.Placing)),
		"",
		fmt.Sprintf("%.1f WPM · %d%% accuracy · %d errors", rec.WPM, rec.Accuracy, rec.Errors),
		footerStyle.Render(fmt.Sprintf("session: %d races · avg %.1f · peak %.1f",
			len(s.Races), s.AverageWPM, s.PeakWPM)),
		"",
	}
	for _, in := range m.insights {
		lines = append(lines, insightStyle.Render(fmt.Sprintf("[%s] %s", in.Label, in.Message)))
	}
	lines = append(lines, "", footerStyle.Render("enter race again · q quit"))
	return strings.Join(lines, "\n")
}

func placeBanner(placing int) string {
	switch placing {
	case 1:
		return "1st place!"
	case 2:
		return "2nd place"
	case 3:
		return "3rd place"
	default:
		return fmt.Sprintf("%dth place", placing)
	}
}

func contentWidth(total int) int {
	if total == 0 {
		return 0
	}
	w := int(float64(total) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func barWidth(total int) int {
	w := total/2 - 26
	if w < 10 {
		w = 10
	}
	return w
}
