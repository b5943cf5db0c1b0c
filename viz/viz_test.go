// ABOUTME: Tests for buyer group graphs and the queue dashboard
// ABOUTME: Uses an in-memory workspace with a pinned clock
package viz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/staleness"
	"github.com/harperreed/speedrun/workspace"
)

// Tuesday mid-morning.
var now = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func seed(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws := workspace.NewTestWorkspace(t, now)
	ws.MustCreate(t, models.Record{
		Kind: models.KindPerson, Name: "Dana Decider", Company: "Acme", Email: "dana@acme.test",
		BuyerGroupRole: models.RoleDecisionMaker, LastContactDate: "2025-03-03",
		Amount: 150000, Priority: models.PriorityHigh,
	})
	ws.MustCreate(t, models.Record{
		Kind: models.KindPerson, Name: "Bo Blocker", Company: "Acme", Email: "bo@acme.test",
		BuyerGroupRole: models.RoleBlocker,
	})
	ws.MustCreate(t, models.Record{
		Kind: models.KindLead, Name: "Other Co Lead", Company: "Globex", Phone: "+1 555 0100",
		Status: models.StatusNew, Amount: 50000,
	})
	ws.MustCreate(t, models.Record{
		Kind: models.KindAccount, Type: "partner", Name: "Reseller", Company: "Globex", Email: "p@globex.test",
	})
	return ws
}

func TestLoadBuyerGroup(t *testing.T) {
	ws := seed(t)

	group, err := NewGraphGenerator(ws).LoadBuyerGroup("acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", group.Company)
	require.Len(t, group.Members, 2)
	assert.Equal(t, "Dana Decider", group.Members[0].Record.Name)
	assert.Equal(t, 1, group.Members[0].Evaluation.Rank)
}

func TestLoadBuyerGroupUnknownCompany(t *testing.T) {
	ws := seed(t)
	_, err := NewGraphGenerator(ws).LoadBuyerGroup("Initech")
	assert.Error(t, err)
}

func TestMemberLabelAndColor(t *testing.T) {
	ws := seed(t)
	group, err := NewGraphGenerator(ws).LoadBuyerGroup("Acme")
	require.NoError(t, err)

	label := memberLabel(group.Members[1])
	assert.Contains(t, label, "#2 Bo Blocker")
	assert.Contains(t, label, models.RoleBlocker)
	assert.Contains(t, label, staleness.NeverLabel)

	assert.Equal(t, "lightgreen", fillColor(models.ColorGreen))
	assert.Equal(t, "lightgray", fillColor("unknown"))
}

func TestSummarize(t *testing.T) {
	ws := seed(t)
	engine, err := ws.Engine()
	require.NoError(t, err)

	records := []models.Record{}
	for _, name := range []string{"Acme", "Globex"} {
		group, err := NewGraphGenerator(ws).LoadBuyerGroup(name)
		require.NoError(t, err)
		for _, m := range group.Members {
			records = append(records, m.Record)
		}
	}

	stats := Summarize(engine.Rank(records, now), engine.Queue(records, now, 0))
	assert.Equal(t, 4, stats.TotalRecords)
	assert.Equal(t, 3, stats.QueueLength)
	assert.Equal(t, 1, stats.Partners)
	assert.Equal(t, 1, stats.ByStaleness[staleness.TierRecent])
	assert.Equal(t, 2, stats.ByStaleness[staleness.TierNever])
	assert.Len(t, stats.Top, 3)
}

func TestRenderDashboard(t *testing.T) {
	ws := seed(t)

	stats, err := GenerateDashboardStats(ws)
	require.NoError(t, err)
	assert.Equal(t, string(models.StrategyBalanced), stats.Strategy)

	out := RenderDashboard(stats)
	assert.Contains(t, out, "SPEEDRUN DASHBOARD")
	assert.Contains(t, out, "4 records  3 in queue  1 partners")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "UP NEXT")
	assert.NotContains(t, out, "NEEDS ATTENTION")
}

func TestRenderDashboardShowsWarnings(t *testing.T) {
	out := RenderDashboard(&DashboardStats{Warnings: []string{"weightings sum to 85.0%, expected 100%"}})
	assert.Contains(t, out, "NEEDS ATTENTION")
	assert.Contains(t, out, "85.0%")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
