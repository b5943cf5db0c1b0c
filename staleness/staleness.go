// ABOUTME: Staleness classifier for last-contact recency
// ABOUTME: Resolves the last-contact instant from a record and buckets it into ordered tiers
package staleness

import (
	"fmt"
	"math"
	"time"

	"github.com/harperreed/speedrun/models"
)

// Tier is an ordered recency bucket.
type Tier string

const (
	TierRecent    Tier = "recent"
	TierModerate  Tier = "moderate"
	TierStale     Tier = "stale"
	TierVeryStale Tier = "very-stale"
	TierNever     Tier = "never"
)

// Tiers lists every tier from freshest to stalest.
var Tiers = []Tier{TierRecent, TierModerate, TierStale, TierVeryStale, TierNever}

// Rank orders tiers; higher means more neglected.
func (t Tier) Rank() int {
	switch t {
	case TierRecent:
		return 0
	case TierModerate:
		return 1
	case TierStale:
		return 2
	case TierVeryStale:
		return 3
	default:
		return 4
	}
}

// Color is the presentation class for the tier.
func (t Tier) Color() string {
	switch t {
	case TierRecent:
		return models.ColorGreen
	case TierModerate:
		return models.ColorYellow
	case TierStale:
		return models.ColorOrange
	case TierVeryStale:
		return models.ColorRed
	default:
		return models.ColorGray
	}
}

// NeverLabel is shown when a record has no usable contact timestamp.
const NeverLabel = "Never"

// Result is a classified last-contact.
type Result struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
	Days  int    `json:"days"`
	Known bool   `json:"known"`
}

// Timing renders the result as a timing pill.
func (r Result) Timing() models.Timing {
	return models.Timing{Label: r.Label, Tier: string(r.Tier), Color: r.Tier.Color()}
}

// ResolveLastContact picks the first parseable candidate in priority order:
// contact date, engagement, email, generic activity, then last update.
func ResolveLastContact(r models.Record) (time.Time, bool) {
	for _, ts := range []models.Timestamp{r.LastContactDate, r.LastEngagementAt, r.LastEmailAt, r.LastActivityAt} {
		if t, ok := ts.Time(); ok {
			return t, true
		}
	}
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt, true
	}
	return time.Time{}, false
}

// ClassifyRecord resolves and classifies a record's last contact.
func ClassifyRecord(r models.Record, now time.Time) Result {
	last, ok := ResolveLastContact(r)
	return Classify(last, ok, now)
}

// Classify buckets the time elapsed between last and now.
func Classify(last time.Time, ok bool, now time.Time) Result {
	if !ok {
		return Result{Tier: TierNever, Label: NeverLabel, Days: -1}
	}

	elapsed := now.Sub(last)
	if elapsed < 0 {
		elapsed = 0
	}
	days := int(elapsed / (24 * time.Hour))

	return Result{
		Tier:  tierForDays(days),
		Label: label(elapsed, days),
		Days:  days,
		Known: true,
	}
}

func tierForDays(days int) Tier {
	switch {
	case days <= 3:
		return TierRecent
	case days <= 14:
		return TierModerate
	case days <= 30:
		return TierStale
	default:
		return TierVeryStale
	}
}

func label(elapsed time.Duration, days int) string {
	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed/time.Minute))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed/time.Hour))
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 30:
		return fmt.Sprintf("%dw ago", int(math.Ceil(float64(days)/7)))
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", int(math.Ceil(float64(days)/365)))
	}
}
