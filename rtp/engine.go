// ABOUTME: Real-Time Prioritization engine: scores, evaluates and ranks CRM records
// ABOUTME: Pure over (records, profile, now); the profile is snapshotted when the engine is built
package rtp

import (
	"math"
	"runtime"
	"time"
	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/speedrun/actions"
	"github.com/harperreed/speedrun/calendar"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/staleness"
	"github.com/harperreed/speedrun/timing"
)

// ParallelThreshold is the list size at which scoring fans out across goroutines.
const ParallelThreshold = 256

// BonusKey is the breakdown entry holding priority-filter bonuses.
const BonusKey = "bonus"

const overduePerDay = 10.0

// Engine evaluates records against one profile snapshot.
type Engine struct {
	profile  models.Profile
	cal      *calendar.Calendar
	resolver *timing.Resolver
	loc      *time.Location
	parallel int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCalendar sets the business calendar, and with it the user's timezone.
func WithCalendar(cal *calendar.Calendar) Option {
	return func(e *Engine) {
		if cal != nil {
			e.cal = cal
		}
	}
}

// WithParallelThreshold overrides the list size at which scoring runs in parallel.
func WithParallelThreshold(n int) Option {
	return func(e *Engine) {
		e.parallel = n
	}
}

// New builds an engine. The profile is copied so later edits don't leak into a pass.
func New(profile models.Profile, opts ...Option) *Engine {
	e := &Engine{
		profile:  profile,
		parallel: ParallelThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cal == nil {
		loc, err := time.LoadLocation(timing.DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
		e.cal = calendar.New(loc)
	}
	e.loc = e.cal.Location()
	e.resolver = timing.New(e.cal)
	return e
}

// Profile returns the engine's profile snapshot.
func (e *Engine) Profile() models.Profile {
	return e.profile
}

// Calendar returns the business calendar in use.
func (e *Engine) Calendar() *calendar.Calendar {
	return e.cal
}

// Score is the numeric outcome for one record.
type Score struct {
	Composite      float64            `json:"composite"`
	Final          float64            `json:"final"`
	Importance     float64            `json:"importance"`
	Overdue        bool               `json:"overdue"`
	OverdueDays    int                `json:"overdue_days,omitempty"`
	BelowThreshold bool               `json:"below_threshold,omitempty"`
	Breakdown      map[string]float64 `json:"breakdown"`
}

// bucket orders overdue work first and out-of-focus records last.
func (s Score) bucket() int {
	switch {
	case s.Overdue:
		return 0
	case s.BelowThreshold:
		return 2
	default:
		return 1
	}
}

// Score computes the weighted composite for a record.
func (e *Engine) Score(r models.Record, now time.Time) Score {
	w := e.profile.Weightings
	stale := staleness.ClassifyRecord(r, now)

	urgency := RecencyValue(stale.Tier)
	overdueDays := 0
	if next, ok := r.NextActionDate.TimeIn(e.loc); ok {
		until := daysBetween(now, next, e.loc)
		urgency = math.Max(urgency, ScheduleValue(until))
		if until < 0 {
			overdueDays = -until
		}
	}
	risk := CompetitiveRiskValue(r)
	closeProb := CloseProbabilityValue(r)

	s := Score{Breakdown: make(map[string]float64, 6)}
	add := func(name string, value, weight float64) {
		c := clamp(value) * clamp(weight) / 100
		s.Breakdown[name] = c
		s.Composite += c
	}
	add(models.FactorDealSize, DealSizeValue(r.Amount), w.DealSize)
	add(models.FactorCloseProbability, closeProb, w.CloseProbability)
	add(models.FactorUrgency, urgency, w.Urgency)
	add(models.FactorRelationshipStrength, RelationshipValue(r.BuyerGroupRole), w.RelationshipStrength)
	add(models.FactorCompetitiveRisk, risk, w.CompetitiveRisk)

	bonus := e.bonus(r, now, stale.Tier, risk)
	s.Breakdown[BonusKey] = bonus
	s.Composite += bonus

	s.Overdue = overdueDays > 0
	s.OverdueDays = overdueDays
	s.Final = s.Composite + overduePerDay*float64(overdueDays)
	s.Importance = Importance(r)
	s.BelowThreshold = e.belowThreshold(r, now, closeProb)
	return s
}

func (e *Engine) bonus(r models.Record, now time.Time, tier staleness.Tier, risk float64) float64 {
	p := e.profile.Priorities
	t := e.profile.Thresholds
	var bonus float64

	if p.HighValueDeals && r.Amount >= math.Max(t.MinDealSize, HighValueFloor) {
		bonus += priorityBonus
	}
	if p.NearClose {
		if days, ok := e.daysToClose(r, now); ok {
			limit := t.MaxDaysToClose
			if limit <= 0 {
				limit = DefaultNearCloseDays
			}
			if days >= 0 && days <= limit {
				bonus += priorityBonus
			}
		}
	}
	if p.AtRiskDeals && risk >= 60 {
		bonus += priorityBonus
	}
	if p.StaleRelationships && (tier == staleness.TierStale || tier == staleness.TierVeryStale) {
		bonus += priorityBonus
	}
	if p.PriorityFlagged {
		switch r.Priority {
		case models.PriorityHigh:
			bonus += priorityBonus
		case models.PriorityMedium:
			bonus += priorityBonus / 2
		}
	}
	return bonus
}

func (e *Engine) belowThreshold(r models.Record, now time.Time, closeProb float64) bool {
	t := e.profile.Thresholds
	if t.MinDealSize > 0 && r.Amount < t.MinDealSize {
		return true
	}
	if t.MinCloseProbability > 0 && closeProb < t.MinCloseProbability {
		return true
	}
	if t.MaxDaysToClose > 0 {
		if days, ok := e.daysToClose(r, now); ok && days > t.MaxDaysToClose {
			return true
		}
	}
	return false
}

func (e *Engine) daysToClose(r models.Record, now time.Time) (int, bool) {
	closeAt, ok := r.ExpectedCloseDate.TimeIn(e.loc)
	if !ok {
		return 0, false
	}
	return daysBetween(now, closeAt, e.loc), true
}

// Evaluate is the single per-row entry point. Rank is left at zero; only
// ranking passes assign it.
func (e *Engine) Evaluate(r models.Record, now time.Time) models.Evaluation {
	return e.evaluate(r, now, e.Score(r, now))
}

func (e *Engine) evaluate(r models.Record, now time.Time, s Score) models.Evaluation {
	rec := actions.Select(r, now)
	next := e.resolver.Resolve(rec.Urgency, now)
	if rec.Fixed != nil {
		next = *rec.Fixed
	}

	ev := models.Evaluation{
		RecordID:          r.ID,
		LastActionTiming:  staleness.ClassifyRecord(r, now).Timing(),
		NextActionTiming:  next,
		RecommendedAction: rec.Text,
		Urgency:           rec.Urgency,
		Score:             round(s.Final, 2),
		Importance:        round(s.Importance, 2),
		Overdue:           s.Overdue,
		Breakdown:         s.Breakdown,
	}
	if r.IsPartner() {
		ev.RankLabel = models.RankSentinel
	}
	return ev
}

// Warnings surfaces non-blocking profile issues alongside results.
func (e *Engine) Warnings() []string {
	return e.profile.Warnings()
}

// scoreAll scores every record, in parallel for large lists.
func (e *Engine) scoreAll(records []models.Record, now time.Time) []Score {
	scores := make([]Score, len(records))
	if e.parallel <= 0 || len(records) < e.parallel {
		for i, r := range records {
			scores[i] = e.Score(r, now)
		}
		return scores
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range records {
		g.Go(func() error {
			scores[i] = e.Score(records[i], now)
			return nil
		})
	}
	_ = g.Wait()
	return scores
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
