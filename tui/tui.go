// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen speedrun queue with strategy previews and per-record detail
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/speedrun/activity"
	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
	"github.com/harperreed/speedrun/workspace"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewQueue ViewMode = iota
	ViewDetail
)

// Model is the main bubbletea model
type Model struct {
	ws       *workspace.Workspace
	viewMode ViewMode
	limit    int

	// Strategy shown; it differs from the saved one while previewing.
	strategy models.Strategy
	saved    models.Strategy

	queue       []rtp.Ranked
	warnings    []string
	selectedRow int
	loadedAt    time.Time

	status string
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model
func NewModel(ws *workspace.Workspace, limit int) Model {
	return Model{
		ws:       ws,
		viewMode: ViewQueue,
		limit:    limit,
		width:    100,
		height:   24,
	}
}

type queueLoadedMsg struct {
	strategy models.Strategy
	saved    models.Strategy
	queue    []rtp.Ranked
	warnings []string
	at       time.Time
}

type errMsg struct{ err error }

type statusMsg string

// loadQueue ranks with the given preset, or the saved profile when strategy is empty.
func (m Model) loadQueue(strategy models.Strategy) tea.Cmd {
	ws, limit := m.ws, m.limit
	return func() tea.Msg {
		saved, err := ws.Profile()
		if err != nil {
			return errMsg{err}
		}

		p := saved
		if strategy != "" && strategy != saved.Strategy {
			if p, err = models.PresetProfile(strategy); err != nil {
				return errMsg{err}
			}
		}
		e, err := ws.EngineFor(p)
		if err != nil {
			return errMsg{err}
		}

		records, err := db.FindRecords(ws.DB, "", "", 0)
		if err != nil {
			return errMsg{err}
		}

		now := ws.Now()
		return queueLoadedMsg{
			strategy: p.Strategy,
			saved:    saved.Strategy,
			queue:    e.Queue(records, now, limit),
			warnings: e.Warnings(),
			at:       now,
		}
	}
}

func (m Model) saveStrategy() tea.Cmd {
	ws, strategy := m.ws, m.strategy
	return func() tea.Msg {
		if _, err := ws.ApplyStrategy(strategy); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("Saved strategy %s", strategy))
	}
}

func (m Model) logContact(r models.Record) tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		if err := db.LogContact(ws.DB, r.ID, ws.Now()); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("Logged contact with %s", r.Name))
	}
}

// outcomeKeys are the one-key speedrun outcomes.
var outcomeKeys = map[string]activity.Outcome{
	"c": activity.OutcomeConnected,
	"v": activity.OutcomeVoicemail,
	"n": activity.OutcomeNoAnswer,
	"x": activity.OutcomeNotInterested,
}

func (m Model) complete(r models.Record, outcome activity.Outcome) tea.Cmd {
	ws := m.ws
	return func() tea.Msg {
		if _, _, err := ws.Complete(r.ID, outcome, ""); err != nil {
			return errMsg{err}
		}
		if outcome.Verb() == activity.VerbAttempted {
			return statusMsg(fmt.Sprintf("%s: %s stays queued", outcome, r.Name))
		}
		return statusMsg(fmt.Sprintf("%s: %s done", outcome, r.Name))
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadQueue("")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case queueLoadedMsg:
		m.strategy = msg.strategy
		m.saved = msg.saved
		m.queue = msg.queue
		m.warnings = msg.warnings
		m.loadedAt = msg.at
		m.err = nil
		if m.selectedRow >= len(m.queue) {
			m.selectedRow = max(0, len(m.queue)-1)
		}
		return m, nil
	case statusMsg:
		m.status = string(msg)
		return m, m.loadQueue(m.strategy)
	case errMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewDetail:
		return m.renderDetailView()
	default:
		return m.renderQueueView()
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewQueue:
		return m.handleQueueKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	}
	return m, nil
}

// nextStrategy cycles through the presets in settings order.
func nextStrategy(current models.Strategy) models.Strategy {
	for i, s := range models.Strategies {
		if s == current {
			return models.Strategies[(i+1)%len(models.Strategies)]
		}
	}
	return models.Strategies[0]
}

func (m Model) selected() (rtp.Ranked, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.queue) {
		return rtp.Ranked{}, false
	}
	return m.queue[m.selectedRow], true
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// pillColors maps presentation color classes onto terminal colors.
var pillColors = map[string]lipgloss.Color{
	models.ColorRed:    lipgloss.Color("196"),
	models.ColorOrange: lipgloss.Color("208"),
	models.ColorYellow: lipgloss.Color("220"),
	models.ColorGreen:  lipgloss.Color("42"),
	models.ColorBlue:   lipgloss.Color("39"),
	models.ColorGray:   lipgloss.Color("245"),
}

func renderPill(t models.Timing) string {
	color, ok := pillColors[t.Color]
	if !ok {
		color = pillColors[models.ColorGray]
	}
	return lipgloss.NewStyle().Foreground(color).Render(t.Label)
}
