// ABOUTME: Tests for ranking passes and the speedrun queue
// ABOUTME: Covers ordering rules, partner exclusion, tie-breaks, parallel scoring and queue filtering
package rtp

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/speedrun/models"
)

func names(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Record.Name
	}
	return out
}

func TestDecisionMakerAheadOfBlocker(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))

	base := models.Record{Status: "engaged", Amount: 200000, LastContactDate: "2025-10-10"}
	blocker := base
	blocker.Name = "blocker"
	blocker.BuyerGroupRole = models.RoleBlocker
	dm := base
	dm.Name = "dm"
	dm.BuyerGroupRole = models.RoleDecisionMaker

	ranked := e.Rank([]models.Record{blocker, dm}, now)

	require.Len(t, ranked, 2)
	assert.Equal(t, []string{"dm", "blocker"}, names(ranked))
	assert.Equal(t, 1, ranked[0].Evaluation.Rank)
	assert.Equal(t, "1", ranked[0].Evaluation.RankLabel)
	assert.Equal(t, 2, ranked[1].Evaluation.Rank)
}

func TestOverdueOutranksHigherComposite(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))

	whale := models.Record{
		Name:           "whale",
		Stage:          "negotiation",
		Amount:         20_000_000,
		BuyerGroupRole: models.RoleDecisionMaker,
		RiskLevel:      "high",
		Priority:       "high",
	}
	late := models.Record{Name: "late", Status: "contacted", LastContactDate: "2025-10-13", NextActionDate: "2025-10-13"}

	ranked := e.Rank([]models.Record{whale, late}, now)
	assert.Equal(t, []string{"late", "whale"}, names(ranked))
	assert.Greater(t, ranked[1].Score.Final, ranked[0].Score.Final, "bucket wins over score")
}

func TestOverdueTenDaysOutranksEqualRecord(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))

	onTime := models.Record{Name: "on-time", Status: "contacted", LastContactDate: "2025-10-12"}
	overdue := onTime
	overdue.Name = "overdue"
	overdue.NextActionDate = "2025-10-04"

	ranked := e.Rank([]models.Record{onTime, overdue}, now)
	assert.Equal(t, []string{"overdue", "on-time"}, names(ranked))
	assert.True(t, ranked[0].Evaluation.Overdue)
}

func TestBelowThresholdTrails(t *testing.T) {
	p, err := models.PresetProfile(models.StrategyMaximizeValue)
	require.NoError(t, err)
	e := newEngine(t, p)
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))

	small := models.Record{Name: "small", Stage: "negotiation", Amount: 60000, BuyerGroupRole: models.RoleDecisionMaker, RiskLevel: "high"}
	big := models.Record{Name: "big", Status: "new", Amount: 150000, LastContactDate: "2025-10-13"}

	ranked := e.Rank([]models.Record{small, big}, now)
	assert.Equal(t, []string{"big", "small"}, names(ranked))
	assert.Equal(t, "2", ranked[1].Evaluation.RankLabel, "demoted records are still ranked")
}

func TestPartnersTrailWithSentinel(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))

	records := []models.Record{
		{Name: "partner", Type: "partner", Stage: "negotiation", Amount: 50_000_000},
		{Name: "a", Status: "engaged"},
		{Name: "b", Status: "new"},
	}
	ranked := e.Rank(records, now)

	require.Len(t, ranked, 3)
	last := ranked[2]
	assert.Equal(t, "partner", last.Record.Name)
	assert.Equal(t, models.RankSentinel, last.Evaluation.RankLabel)
	assert.Equal(t, 0, last.Evaluation.Rank)
	assert.Equal(t, models.RankSentinel, FormatRank(last.Evaluation))
	assert.Equal(t, "1", FormatRank(ranked[0].Evaluation))
}

func TestTieBreaks(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	base := models.Record{Status: "engaged", LastContactDate: "2025-10-13", CreatedAt: created}

	small := base
	small.Name = "small"
	small.Employees = 10
	large := base
	large.Name = "large"
	large.Employees = 5000
	assert.Equal(t, []string{"large", "small"}, names(e.Rank([]models.Record{small, large}, now)), "importance breaks score ties")

	newer := base
	newer.Name = "newer"
	newer.CreatedAt = created.Add(time.Hour)
	older := base
	older.Name = "older"
	assert.Equal(t, []string{"older", "newer"}, names(e.Rank([]models.Record{newer, older}, now)), "creation order next")

	first := base
	first.Name = "first"
	second := base
	second.Name = "second"
	assert.Equal(t, []string{"first", "second"}, names(e.Rank([]models.Record{first, second}, now)), "then input order")
}

func TestQuantizeIgnoresFloatNoise(t *testing.T) {
	assert.Equal(t, quantize(50.01), quantize(50.04))
	assert.NotEqual(t, quantize(50.01), quantize(50.2))
}

func TestParallelRankMatchesSequential(t *testing.T) {
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))
	stages := []string{"", "qualification", "proposal", "negotiation", "closed_won"}
	statuses := []string{"new", "contacted", "engaged", "qualified", "nurture"}
	roles := []string{"", models.RoleDecisionMaker, models.RoleChampion, models.RoleBlocker}

	records := make([]models.Record, 300)
	for i := range records {
		records[i] = models.Record{
			ID:              uuid.New(),
			Name:            fmt.Sprintf("r%03d", i),
			Stage:           stages[i%len(stages)],
			Status:          statuses[(i/5)%len(statuses)],
			BuyerGroupRole:  roles[i%len(roles)],
			Amount:          float64((i * 37_000) % 2_000_000),
			Employees:       i * 13,
			LastContactDate: models.TimestampOf(now.AddDate(0, 0, -(i % 60))),
		}
		if i%17 == 0 {
			records[i].NextActionDate = models.TimestampOf(now.AddDate(0, 0, -(i % 5)))
		}
		if i%29 == 0 {
			records[i].Type = "partner"
		}
	}

	sequential := newEngine(t, models.DefaultProfile(), WithParallelThreshold(0)).Rank(records, now)
	parallel := newEngine(t, models.DefaultProfile(), WithParallelThreshold(1)).Rank(records, now)

	assert.Equal(t, sequential, parallel)
}

func TestQueueFiltersAndTimesByPosition(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	tuesday19 := time.Date(2025, 10, 14, 19, 0, 0, 0, newYork(t))

	records := []models.Record{
		{Name: "lead", Status: "new", Email: "lead@example.com", Amount: 150000},
		{Name: "engaged", Status: "engaged", Phone: "+1 555 0100"},
		{Name: "partner", Type: "partner", Status: "new", Email: "p@example.com"},
		{Name: "unreachable", Status: "new"},
		{Name: "archived", Status: "Archived", Email: "a@example.com"},
		{Name: "won", Stage: "Closed Won", Email: "w@example.com"},
		{Name: "lost", Status: "closed-lost", Email: "l@example.com"},
	}

	queue := e.Queue(records, tuesday19, 0)
	require.Len(t, queue, 2)
	assert.ElementsMatch(t, []string{"lead", "engaged"}, names(queue))
	assert.Equal(t, "Now", queue[0].Evaluation.NextActionTiming.Label)
	assert.Equal(t, "Today", queue[1].Evaluation.NextActionTiming.Label)
	assert.Equal(t, 1, queue[0].Evaluation.Rank)

	limited := e.Queue(records, tuesday19, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, queue[0].Record.Name, limited[0].Record.Name)
}

func TestQueueOnWeekendNamesNextWorkingDay(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	saturday := time.Date(2025, 10, 18, 10, 0, 0, 0, newYork(t))

	queue := e.Queue([]models.Record{
		{Name: "a", Status: "new", Email: "a@example.com"},
		{Name: "b", Status: "new", Email: "b@example.com"},
	}, saturday, 10)

	for _, q := range queue {
		assert.Equal(t, "Monday", q.Evaluation.NextActionTiming.Label)
	}
}

func TestEligible(t *testing.T) {
	assert.True(t, Eligible(models.Record{Status: "new", Email: "x@example.com"}))
	assert.False(t, Eligible(models.Record{Status: "Completed", Email: "x@example.com"}))
	assert.False(t, Eligible(models.Record{Status: "new"}))
	assert.False(t, Eligible(models.Record{Type: "Partner", Phone: "1"}))
}
