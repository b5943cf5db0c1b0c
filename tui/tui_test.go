// ABOUTME: Tests for the TUI model
// ABOUTME: Drives Update with key messages and runs the returned commands synchronously
package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/workspace"
)

// Tuesday mid-morning.
var now = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to the model and resolves one follow-up command.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func loadedModel(t *testing.T) (Model, *workspace.Workspace) {
	t.Helper()
	ws := workspace.NewTestWorkspace(t, now)
	ws.MustCreate(t, models.Record{Kind: models.KindLead, Name: "Fresh Lead", Email: "fresh@x.test"})
	ws.MustCreate(t, models.Record{
		Kind: models.KindOpportunity, Name: "Big Deal", Email: "deal@x.test",
		Stage: "negotiation", Amount: 200000, LastContactDate: "2025-03-03",
	})
	ws.MustCreate(t, models.Record{Kind: models.KindLead, Name: "Unreachable"})

	m := NewModel(ws, 10)
	msg := m.Init()()
	next, _ := m.Update(msg)
	return next.(Model), ws
}

func TestInitLoadsQueue(t *testing.T) {
	m, _ := loadedModel(t)

	require.NoError(t, m.err)
	assert.Equal(t, models.StrategyBalanced, m.strategy)
	assert.Equal(t, models.StrategyBalanced, m.saved)
	require.Len(t, m.queue, 2)
	assert.Equal(t, "Now", m.queue[0].Evaluation.NextActionTiming.Label)
	assert.Equal(t, "Today", m.queue[1].Evaluation.NextActionTiming.Label)
	assert.Equal(t, now, m.loadedAt)

	view := m.View()
	assert.Contains(t, view, "SPEEDRUN · balanced")
	assert.Contains(t, view, "Fresh Lead")
	assert.NotContains(t, view, "Unreachable")
}

func TestTabPreviewsWithoutSaving(t *testing.T) {
	m, ws := loadedModel(t)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.StrategyCloseQuickly, m.strategy)
	assert.Equal(t, models.StrategyBalanced, m.saved)
	assert.Contains(t, m.View(), "preview, saved: balanced")

	stored, err := db.GetProfile(ws.DB, ws.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.StrategyBalanced, stored.Strategy)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.StrategySellFaster, m.strategy)
}

func TestSaveStrategyPersistsPreview(t *testing.T) {
	m, ws := loadedModel(t)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = step(t, m, keyRunes("s"))
	assert.Equal(t, "Saved strategy close_quickly", m.status)

	stored, err := db.GetProfile(ws.DB, ws.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.StrategyCloseQuickly, stored.Strategy)

	// The status message triggers a reload that picks up the saved profile.
	next, _ := m.Update(m.loadQueue(m.strategy)())
	m = next.(Model)
	assert.Equal(t, models.StrategyCloseQuickly, m.saved)
}

func TestNavigationAndDetail(t *testing.T) {
	m, _ := loadedModel(t)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selectedRow)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.selectedRow, "cursor stops at the last row")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewDetail, m.viewMode)
	view := m.View()
	assert.Contains(t, view, m.queue[1].Record.Name)
	assert.Contains(t, view, "Score breakdown")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewQueue, m.viewMode)
}

func TestLogContactFromQueue(t *testing.T) {
	m, ws := loadedModel(t)
	target := m.queue[0].Record

	m = step(t, m, keyRunes("l"))
	assert.Equal(t, "Logged contact with "+target.Name, m.status)

	stored, err := db.GetRecord(ws.DB, target.ID)
	require.NoError(t, err)
	last, ok := stored.LastContactDate.Time()
	require.True(t, ok)
	assert.True(t, last.Equal(now))
}

func TestOutcomeKeys(t *testing.T) {
	m, ws := loadedModel(t)
	require.Len(t, m.queue, 2)
	target := m.queue[0].Record

	m = step(t, m, keyRunes("v"))
	assert.Equal(t, "voicemail: "+target.Name+" stays queued", m.status)
	next, _ := m.Update(m.loadQueue(m.strategy)())
	m = next.(Model)
	assert.Len(t, m.queue, 2)

	m.selectedRow = 0
	target = m.queue[0].Record
	m = step(t, m, keyRunes("c"))
	assert.Equal(t, "connected: "+target.Name+" done", m.status)
	next, _ = m.Update(m.loadQueue(m.strategy)())
	m = next.(Model)
	require.Len(t, m.queue, 1)
	assert.NotEqual(t, target.ID, m.queue[0].Record.ID)

	stored, err := db.GetRecord(ws.DB, target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestQuit(t *testing.T) {
	m, _ := loadedModel(t)
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNextStrategyWraps(t *testing.T) {
	assert.Equal(t, models.StrategyCloseQuickly, nextStrategy(models.StrategyBalanced))
	assert.Equal(t, models.StrategyCloseQuickly, nextStrategy(models.StrategyCustom))
	assert.Equal(t, models.StrategyMaximizeValue, nextStrategy(models.StrategySellFaster))
}
