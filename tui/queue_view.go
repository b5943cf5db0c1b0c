// ABOUTME: Speedrun queue view for the TUI
// ABOUTME: Renders the ranked queue as a table with strategy tabs
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
)

func (m Model) renderQueueView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("SPEEDRUN · " + m.strategyLabel()))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n")
	if !m.loadedAt.IsZero() {
		s.WriteString(helpStyle.Render("as of " + m.loadedAt.Format("Mon Jan 2 15:04")))
	}
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	}
	for _, w := range m.warnings {
		s.WriteString(warningStyle.Render("⚠ " + w))
		s.WriteString("\n")
	}

	if len(m.queue) == 0 {
		s.WriteString("Queue is empty. Add records with 'speedrun record add'.")
	} else {
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n")

	if m.status != "" {
		s.WriteString("\n" + m.status)
	}
	s.WriteString(m.renderQueueHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for _, strategy := range m.tabs() {
		label := string(strategy)
		if strategy == m.saved {
			label += " *"
		}
		if strategy == m.strategy {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// tabs lists the presets, plus the saved custom profile when there is one.
func (m Model) tabs() []models.Strategy {
	tabs := append([]models.Strategy(nil), models.Strategies...)
	if m.saved == models.StrategyCustom {
		tabs = append(tabs, models.StrategyCustom)
	}
	return tabs
}

func (m Model) renderTable() string {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: 22},
		{Title: "Company", Width: 16},
		{Title: "Last", Width: 12},
		{Title: "Next", Width: 12},
		{Title: "Action", Width: max(20, m.width-80)},
	}

	rows := make([]table.Row, 0, len(m.queue))
	for _, r := range m.queue {
		rows = append(rows, table.Row{
			rtp.FormatRank(r.Evaluation),
			r.Record.Name,
			r.Record.Company,
			r.Evaluation.LastActionTiming.Label,
			r.Evaluation.NextActionTiming.Label,
			r.Evaluation.RecommendedAction,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(5, m.height-12)),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderQueueHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Enter: Details",
		"Tab: Preview strategy",
		"s: Save strategy",
		"l: Log contact",
		"c/v/n/x: Connected/Voicemail/No answer/Not interested",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.queue)-1 {
			m.selectedRow++
		}
	case "tab":
		m.status = ""
		return m, m.loadQueue(nextStrategy(m.strategy))
	case "s":
		if m.strategy != m.saved && m.strategy != "" {
			return m, m.saveStrategy()
		}
	case "r":
		m.status = ""
		return m, m.loadQueue(m.strategy)
	case "l":
		if r, ok := m.selected(); ok {
			return m, m.logContact(r.Record)
		}
	case "enter":
		if _, ok := m.selected(); ok {
			m.viewMode = ViewDetail
		}
	default:
		if outcome, ok := outcomeKeys[msg.String()]; ok {
			if r, ok := m.selected(); ok {
				return m, m.complete(r.Record, outcome)
			}
		}
	}
	return m, nil
}

// strategyLabel names what is on screen, flagging unsaved previews.
func (m Model) strategyLabel() string {
	if m.strategy != m.saved && m.saved != "" {
		return fmt.Sprintf("%s (preview, saved: %s)", m.strategy, m.saved)
	}
	return string(m.strategy)
}
