// ABOUTME: Tests for RTP scoring and single-record evaluation
// ABOUTME: Covers the worked scenarios, weight scaling, bonuses, thresholds and determinism
package rtp

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/speedrun/calendar"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/staleness"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func newEngine(t *testing.T, profile models.Profile, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithCalendar(calendar.New(newYork(t)))}, opts...)
	return New(profile, opts...)
}

func TestNewLeadOnTuesdayMorning(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	tuesday10 := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))

	ev := e.Evaluate(models.Record{ID: uuid.New(), Status: "new", Amount: 150000}, tuesday10)

	assert.Equal(t, "Now", ev.NextActionTiming.Label)
	assert.Contains(t, ev.RecommendedAction, "$150K")
	assert.Equal(t, string(staleness.TierNever), ev.LastActionTiming.Tier)
	assert.Equal(t, "Never", ev.LastActionTiming.Label)
	assert.Equal(t, 0, ev.Rank, "single evaluation is unranked")
}

func TestNegotiationOnFridayEvening(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	friday19 := time.Date(2025, 10, 17, 19, 0, 0, 0, newYork(t))

	ev := e.Evaluate(models.Record{Stage: "negotiation", Amount: 80000}, friday19)

	assert.Equal(t, "Push for close", ev.RecommendedAction)
	assert.Equal(t, models.UrgencyImmediate, ev.Urgency)
	assert.Equal(t, "Monday", ev.NextActionTiming.Label)
}

func TestClosedLostUsesFixedTiming(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	ev := e.Evaluate(models.Record{Stage: "closed_lost"}, time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t)))
	assert.Equal(t, "Next Quarter", ev.NextActionTiming.Label)
}

func TestPartnerEvaluationCarriesSentinel(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	ev := e.Evaluate(models.Record{Type: "Partner", Status: "engaged", Amount: 5_000_000}, time.Now())
	assert.Equal(t, models.RankSentinel, ev.RankLabel)
	assert.Equal(t, 0, ev.Rank)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	e := newEngine(t, models.DefaultProfile())
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, newYork(t))
	r := models.Record{
		ID:              uuid.New(),
		Kind:            models.KindOpportunity,
		Stage:           "proposal",
		Amount:          420000,
		BuyerGroupRole:  "Champion",
		Competitors:     []string{"Globex"},
		LastContactDate: "2025-09-30T15:00:00Z",
		NextActionDate:  "2025-10-20",
		Priority:        "high",
	}

	first, err := json.Marshal(e.Evaluate(r, now))
	require.NoError(t, err)
	second, err := json.Marshal(e.Evaluate(r, now))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestWeightScaling(t *testing.T) {
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC)
	r := models.Record{Status: "engaged", Amount: 150000}

	base := models.DefaultProfile()
	base.Weightings.DealSize = 20
	doubled := base
	doubled.Weightings.DealSize = 40

	s1 := newEngine(t, base).Score(r, now)
	s2 := newEngine(t, doubled).Score(r, now)

	assert.InDelta(t, 2*s1.Breakdown[models.FactorDealSize], s2.Breakdown[models.FactorDealSize], 1e-9)
	assert.Greater(t, s2.Composite, s1.Composite)
	for _, f := range []string{models.FactorCloseProbability, models.FactorUrgency, models.FactorRelationshipStrength, models.FactorCompetitiveRisk} {
		assert.Equal(t, s1.Breakdown[f], s2.Breakdown[f], f)
	}

	zero := models.Record{Status: "engaged"}
	assert.Equal(t, 0.0, newEngine(t, doubled).Score(zero, now).Breakdown[models.FactorDealSize])
}

func TestOffTotalWeightsAreUsedLiterally(t *testing.T) {
	p := models.DefaultProfile()
	p.Weightings = models.Weightings{DealSize: 50, CloseProbability: 50, Urgency: 50, RelationshipStrength: 50, CompetitiveRisk: 50}
	p.Priorities = models.Priorities{}

	e := newEngine(t, p)
	require.NotEmpty(t, e.Warnings())

	// 25 + 70 + 100 + 40 + 0 at half weight each
	s := e.Score(models.Record{Status: "engaged", Amount: 100000}, time.Now())
	assert.InDelta(t, 117.5, s.Composite, 1e-9)
}

func TestMalformedWeightsNeverFail(t *testing.T) {
	p := models.DefaultProfile()
	p.Weightings.DealSize = math.NaN()
	p.Weightings.Urgency = -40
	p.Weightings.CloseProbability = 900

	s := newEngine(t, p).Score(models.Record{Status: "new", Amount: 20_000_000}, time.Now())

	assert.Equal(t, 0.0, s.Breakdown[models.FactorDealSize])
	assert.Equal(t, 0.0, s.Breakdown[models.FactorUrgency])
	assert.Equal(t, 15.0, s.Breakdown[models.FactorCloseProbability])
	assert.False(t, math.IsNaN(s.Final))
}

func TestPriorityBonuses(t *testing.T) {
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC)
	r := models.Record{
		Status:            "engaged",
		Amount:            250000,
		RiskLevel:         "high",
		Priority:          "medium",
		LastContactDate:   "2025-09-01",
		ExpectedCloseDate: "2025-10-30",
	}

	on := newEngine(t, models.DefaultProfile()).Score(r, now)
	assert.Equal(t, 45.0, on.Breakdown[BonusKey])

	off := models.DefaultProfile()
	off.Priorities = models.Priorities{}
	s := newEngine(t, off).Score(r, now)
	assert.Equal(t, 0.0, s.Breakdown[BonusKey])
	assert.InDelta(t, 45, on.Composite-s.Composite, 1e-9)
}

func TestNearCloseHonoursMaxDaysToClose(t *testing.T) {
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC)
	r := models.Record{Status: "engaged", ExpectedCloseDate: "2025-11-28"}

	p := models.DefaultProfile()
	p.Priorities = models.Priorities{NearClose: true}
	assert.Equal(t, 0.0, newEngine(t, p).Score(r, now).Breakdown[BonusKey], "45 days is beyond the 30 day default")

	p.Thresholds.MaxDaysToClose = 60
	assert.Equal(t, 10.0, newEngine(t, p).Score(r, now).Breakdown[BonusKey])
}

func TestOverdueAmplifiesFinal(t *testing.T) {
	loc := newYork(t)
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, loc)
	e := newEngine(t, models.DefaultProfile())

	r := models.Record{Status: "contacted", LastContactDate: "2025-10-12", NextActionDate: "2025-10-04"}
	s := e.Score(r, now)

	assert.True(t, s.Overdue)
	assert.Equal(t, 10, s.OverdueDays)
	assert.InDelta(t, s.Composite+100, s.Final, 1e-9)

	r.NextActionDate = "2025-10-14"
	s = e.Score(r, now)
	assert.False(t, s.Overdue, "due today is not overdue")
	assert.Equal(t, s.Composite, s.Final)
}

func TestThresholdsFlagRecords(t *testing.T) {
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC)

	maxValue, err := models.PresetProfile(models.StrategyMaximizeValue)
	require.NoError(t, err)
	e := newEngine(t, maxValue)
	assert.True(t, e.Score(models.Record{Amount: 50000}, now).BelowThreshold)
	assert.False(t, e.Score(models.Record{Amount: 150000}, now).BelowThreshold)

	quick, err := models.PresetProfile(models.StrategyCloseQuickly)
	require.NoError(t, err)
	e = newEngine(t, quick)
	assert.True(t, e.Score(models.Record{Status: "new"}, now).BelowThreshold, "15% is below the 50% floor")
	assert.False(t, e.Score(models.Record{Stage: "negotiation"}, now).BelowThreshold)
	assert.True(t, e.Score(models.Record{Stage: "negotiation", ExpectedCloseDate: "2026-03-01"}, now).BelowThreshold)
}

func TestEngineSnapshotsProfile(t *testing.T) {
	p := models.DefaultProfile()
	e := newEngine(t, p)
	p.Weightings.DealSize = 99
	assert.Equal(t, 25.0, e.Profile().Weightings.DealSize)
}

func TestDefaultEngineUsesEasternTime(t *testing.T) {
	e := New(models.DefaultProfile())
	assert.Equal(t, "America/New_York", e.Calendar().Location().String())
}
