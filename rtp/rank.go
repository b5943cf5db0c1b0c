// ABOUTME: Ranking and speedrun queue assembly
// ABOUTME: Orders scored records by bucket, score and importance, and numbers them from 1
package rtp

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/harperreed/speedrun/models"
)

// Ranked pairs a record with its score and rendered evaluation.
type Ranked struct {
	Record     models.Record     `json:"record"`
	Score      Score             `json:"score"`
	Evaluation models.Evaluation `json:"evaluation"`
}

// Rank orders records most-urgent first. Higher final score means rank 1.
// Partner records are not ranked; they trail the list with the "-" sentinel.
func (e *Engine) Rank(records []models.Record, now time.Time) []Ranked {
	scores := e.scoreAll(records, now)

	type entry struct {
		idx   int
		score Score
		key   int64
	}
	ranked := make([]entry, 0, len(records))
	var partners []int
	for i, r := range records {
		if r.IsPartner() {
			partners = append(partners, i)
			continue
		}
		ranked = append(ranked, entry{idx: i, score: scores[i], key: quantize(scores[i].Final)})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		x, y := ranked[a], ranked[b]
		if bx, by := x.score.bucket(), y.score.bucket(); bx != by {
			return bx < by
		}
		if x.key != y.key {
			return x.key > y.key
		}
		if x.score.Importance != y.score.Importance {
			return x.score.Importance > y.score.Importance
		}
		cx, cy := records[x.idx].CreatedAt, records[y.idx].CreatedAt
		if !cx.Equal(cy) {
			return cx.Before(cy)
		}
		return x.idx < y.idx
	})

	out := make([]Ranked, 0, len(records))
	for pos, en := range ranked {
		r := records[en.idx]
		ev := e.evaluate(r, now, en.score)
		ev.Rank = pos + 1
		ev.RankLabel = strconv.Itoa(ev.Rank)
		out = append(out, Ranked{Record: r, Score: en.score, Evaluation: ev})
	}
	for _, i := range partners {
		r := records[i]
		out = append(out, Ranked{Record: r, Score: scores[i], Evaluation: e.evaluate(r, now, scores[i])})
	}
	return out
}

var terminalStatuses = map[string]bool{
	models.StatusCompleted:  true,
	"closed":                true,
	"won":                   true,
	"lost":                  true,
	"archived":              true,
	"deleted":               true,
	"disqualified":          true,
	"do-not-contact":        true,
	models.StatusClosedWon:  true,
	models.StatusClosedLost: true,
}

// Eligible reports whether a record belongs in the speedrun queue: reachable,
// not a partner, and not in a terminal state.
func Eligible(r models.Record) bool {
	if r.IsPartner() || !r.HasContactChannel() {
		return false
	}
	if terminalStatuses[models.NormalizeStatus(r.Status)] {
		return false
	}
	switch models.NormalizeStage(r.Stage) {
	case models.StageClosedWon, models.StageClosedLost:
		return false
	}
	return true
}

// Queue builds the speedrun view: eligible records in rank order, capped at
// limit (zero means no cap), with position-relative next-action timing.
func (e *Engine) Queue(records []models.Record, now time.Time, limit int) []Ranked {
	eligible := make([]models.Record, 0, len(records))
	for _, r := range records {
		if Eligible(r) {
			eligible = append(eligible, r)
		}
	}

	ranked := e.Rank(eligible, now)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Evaluation.NextActionTiming = e.resolver.ResolveQueue(i, now)
	}
	return ranked
}

// quantize compares scores at 0.1 resolution so float noise never decides an order.
func quantize(v float64) int64 {
	if math.IsNaN(v) {
		return math.MinInt64
	}
	return int64(math.Round(v * 10))
}

// FormatRank renders a rank for display.
func FormatRank(ev models.Evaluation) string {
	if ev.RankLabel != "" {
		return ev.RankLabel
	}
	if ev.Rank > 0 {
		return strconv.Itoa(ev.Rank)
	}
	return models.RankSentinel
}
