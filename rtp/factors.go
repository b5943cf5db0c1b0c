// ABOUTME: Per-factor scoring functions for the RTP engine
// ABOUTME: Each factor maps a sparse record onto a clamped 0-100 value
package rtp

import (
	"math"
	"strings"
	"time"

	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/staleness"
)

// HighValueFloor is the smallest amount the high-value priority ever rewards.
const HighValueFloor = 100000

// DefaultNearCloseDays applies when the profile sets no MaxDaysToClose.
const DefaultNearCloseDays = 30

const priorityBonus = 10.0

// DealSizeValue buckets a deal amount.
func DealSizeValue(amount float64) float64 {
	switch {
	case amount >= 10_000_000:
		return 100
	case amount >= 1_000_000:
		return 75
	case amount >= 500_000:
		return 50
	case amount >= 100_000:
		return 25
	default:
		return 0
	}
}

var stageProbability = map[string]float64{
	models.StageNegotiation:   80,
	models.StageProposal:      60,
	models.StageDiscovery:     40,
	models.StageNeedsAnalysis: 40,
	models.StageQualification: 25,
	models.StageClosedWon:     0,
	models.StageClosedLost:    0,
}

// CloseProbabilityValue prefers the explicit probability, then the stage, then the status.
func CloseProbabilityValue(r models.Record) float64 {
	if r.Probability != nil {
		return clamp(*r.Probability)
	}
	if p, ok := stageProbability[models.NormalizeStage(r.Stage)]; ok {
		return p
	}
	switch models.NormalizeStatus(r.Status) {
	case models.StatusDemoScheduled, models.StatusQualified:
		return 80
	case models.StatusEngaged, models.StatusResponded:
		return 70
	case models.StatusContacted:
		return 40
	case models.StatusNew, models.StatusUncontacted:
		return 15
	default:
		return 25
	}
}

// RecencyValue rewards neglect: the staler the relationship, the higher the value.
func RecencyValue(tier staleness.Tier) float64 {
	switch tier {
	case staleness.TierNever:
		return 100
	case staleness.TierVeryStale:
		return 90
	case staleness.TierStale:
		return 70
	case staleness.TierModerate:
		return 40
	default:
		return 10
	}
}

// ScheduleValue scores an explicit next-action date by days until due;
// negative days mean overdue.
func ScheduleValue(daysUntil int) float64 {
	switch {
	case daysUntil < 0:
		return math.Min(100, 50+10*float64(-daysUntil))
	case daysUntil == 0:
		return 50
	default:
		return math.Max(0, 40-5*float64(daysUntil))
	}
}

var roleStrength = map[string]float64{
	models.RoleDecisionMaker: 100,
	models.RoleChampion:      80,
	models.RoleIntroducer:    50,
	models.RoleStakeholder:   40,
	models.RoleBlocker:       20,
}

// RelationshipValue scores the buyer-group role. Unknown roles count as Stakeholder.
func RelationshipValue(role string) float64 {
	if v, ok := roleStrength[models.NormalizeRole(role)]; ok {
		return v
	}
	return roleStrength[models.RoleStakeholder]
}

// CompetitiveRiskValue reads the explicit risk level, falling back to the competitor list.
func CompetitiveRiskValue(r models.Record) float64 {
	switch strings.ToLower(strings.TrimSpace(r.RiskLevel)) {
	case models.RiskHigh:
		return 100
	case models.RiskMedium:
		return 60
	case models.RiskLow:
		return 30
	}
	if len(r.Competitors) > 0 {
		return 50
	}
	return 0
}

// daysBetween counts calendar days from a to b in loc; positive when b is later.
func daysBetween(a, b time.Time, loc *time.Location) int {
	a, b = a.In(loc), b.In(loc)
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(db.Sub(da).Hours() / 24))
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
