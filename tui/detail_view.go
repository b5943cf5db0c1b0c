// ABOUTME: Record detail view for the TUI
// ABOUTME: Shows a record's timing pills, recommended action and score breakdown
package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/speedrun/rtp"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(18)

	actionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))
)

func (m Model) renderDetailView() string {
	r, ok := m.selected()
	if !ok {
		return "No record selected"
	}
	rec, ev := r.Record, r.Evaluation

	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("#%s %s", rtp.FormatRank(ev), rec.Name)))
	s.WriteString("\n\n")

	s.WriteString(actionStyle.Render(ev.RecommendedAction))
	s.WriteString("\n\n")

	s.WriteString(renderField("Kind", string(rec.Kind)))
	s.WriteString(renderField("Company", rec.Company))
	s.WriteString(renderField("Title", rec.Title))
	s.WriteString(renderField("Email", rec.Email))
	s.WriteString(renderField("Phone", rec.Phone))
	s.WriteString(renderField("Stage", rec.Stage))
	s.WriteString(renderField("Status", rec.Status))
	s.WriteString(renderField("Priority", rec.Priority))
	s.WriteString(renderField("Buyer role", rec.BuyerGroupRole))
	if rec.Amount > 0 {
		s.WriteString(renderField("Amount", fmt.Sprintf("$%.0f", rec.Amount)))
	}
	s.WriteString("\n")

	s.WriteString(labelStyle.Render("Last contact") + renderPill(ev.LastActionTiming) + "\n")
	s.WriteString(labelStyle.Render("Next action") + renderPill(ev.NextActionTiming) + "\n")
	s.WriteString(renderField("Urgency", string(ev.Urgency)))
	s.WriteString(renderField("Score", fmt.Sprintf("%.1f", ev.Score)))
	s.WriteString(renderField("Importance", fmt.Sprintf("%.1f", ev.Importance)))
	if ev.Overdue {
		s.WriteString(renderField("Overdue", "yes"))
	}

	if len(ev.Breakdown) > 0 {
		s.WriteString("\n")
		s.WriteString(renderBreakdown(ev.Breakdown))
	}

	s.WriteString(helpStyle.Render("Esc: Back • l: Log contact • c/v/n/x: Outcome • q: Quit"))

	return s.String()
}

func renderField(label, value string) string {
	if value == "" {
		return ""
	}
	return labelStyle.Render(label) + value + "\n"
}

func renderBreakdown(breakdown map[string]float64) string {
	factors := make([]string, 0, len(breakdown))
	for f := range breakdown {
		factors = append(factors, f)
	}
	sort.Strings(factors)

	var s strings.Builder
	s.WriteString("Score breakdown\n")
	for _, f := range factors {
		s.WriteString(renderField("  "+f, fmt.Sprintf("%.1f", breakdown[f])))
	}
	return s.String()
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.viewMode = ViewQueue
	case "l":
		if r, ok := m.selected(); ok {
			return m, m.logContact(r.Record)
		}
	default:
		if outcome, ok := outcomeKeys[msg.String()]; ok {
			if r, ok := m.selected(); ok {
				m.viewMode = ViewQueue
				return m, m.complete(r.Record, outcome)
			}
		}
	}
	return m, nil
}
