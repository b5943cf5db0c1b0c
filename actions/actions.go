// ABOUTME: Recommends the next sales action for a record
// ABOUTME: Dispatches on pipeline stage or lifecycle status, then escalates text for big deals and senior titles
package actions

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/staleness"
)

// HighValueAmount is the deal size at which action text calls out the amount.
const HighValueAmount = 100000

// Recommendation is the selected action. Fixed, when set, is a pre-resolved
// timing that bypasses the urgency resolver.
type Recommendation struct {
	Text    string         `json:"text"`
	Urgency models.Urgency `json:"urgency"`
	Fixed   *models.Timing `json:"fixed,omitempty"`
}

// Select picks the next action for a record at the given instant.
func Select(r models.Record, now time.Time) Recommendation {
	var rec Recommendation
	if stage := models.NormalizeStage(r.Stage); stage != "" {
		rec = byStage(stage)
	} else {
		rec = byStatus(r, now)
	}

	rec.Text = escalate(r, rec.Text)
	if hint := roleHint(r.BuyerGroupRole); hint != "" {
		rec.Text += "; " + hint
	}
	return rec
}

func byStage(stage string) Recommendation {
	switch stage {
	case models.StageQualification:
		return Recommendation{Text: "Qualify deal", Urgency: models.UrgencyUrgent}
	case models.StageDiscovery, models.StageNeedsAnalysis:
		return Recommendation{Text: "Present solution", Urgency: models.UrgencySoon}
	case models.StageProposal:
		return Recommendation{Text: "Follow up on proposal", Urgency: models.UrgencyUrgent}
	case models.StageNegotiation:
		return Recommendation{Text: "Push for close", Urgency: models.UrgencyImmediate}
	case models.StageClosedWon:
		return Recommendation{Text: "Onboard customer", Urgency: models.UrgencySoon}
	case models.StageClosedLost:
		return quarterlyCheckIn()
	default:
		return Recommendation{Text: "Advance to next stage", Urgency: models.UrgencyRoutine}
	}
}

func quarterlyCheckIn() Recommendation {
	return Recommendation{
		Text:    "Quarterly check-in",
		Urgency: models.UrgencyFuture,
		Fixed:   &models.Timing{Label: "Next Quarter", Tier: string(models.UrgencyFuture), Color: models.ColorGray},
	}
}

func byStatus(r models.Record, now time.Time) Recommendation {
	last, contacted := staleness.ResolveLastContact(r)
	days := 0
	if contacted {
		days = int(now.Sub(last) / (24 * time.Hour))
	}

	switch models.NormalizeStatus(r.Status) {
	case models.StatusNew, models.StatusUncontacted:
		return Recommendation{Text: "Initial outreach", Urgency: models.UrgencyImmediate}
	case models.StatusContacted:
		if !contacted || days > 7 {
			return Recommendation{Text: "Follow up on initial contact", Urgency: models.UrgencyUrgent}
		}
		return Recommendation{Text: "Follow up on initial contact", Urgency: models.UrgencySoon}
	case models.StatusEngaged, models.StatusResponded:
		return Recommendation{Text: "Schedule discovery call", Urgency: models.UrgencyUrgent}
	case models.StatusQualified:
		return Recommendation{Text: "Schedule demo", Urgency: models.UrgencyUrgent}
	case models.StatusDemoScheduled:
		return Recommendation{Text: "Follow up on demo", Urgency: models.UrgencyImmediate}
	case models.StatusClosedWon:
		return byStage(models.StageClosedWon)
	case models.StatusClosedLost:
		return byStage(models.StageClosedLost)
	}

	noun := "contact"
	if r.Kind == models.KindAccount {
		noun = "account"
	}
	switch {
	case !contacted:
		return Recommendation{Text: "Initial outreach", Urgency: models.UrgencyImmediate}
	case days > 30:
		return Recommendation{Text: "Re-engage " + noun, Urgency: models.UrgencyImmediate}
	case days > 14:
		return Recommendation{Text: "Check in with " + noun, Urgency: models.UrgencySoon}
	case days > 7:
		return Recommendation{Text: "Follow up with " + noun, Urgency: models.UrgencyRoutine}
	default:
		return Recommendation{Text: "Continue conversation", Urgency: models.UrgencyRoutine}
	}
}

// escalate prefixes the deal size and senior title, e.g. "$150K deal, VP Sales: Initial outreach".
func escalate(r models.Record, text string) string {
	var context []string
	if r.Amount >= HighValueAmount {
		context = append(context, FormatAmount(r.Amount)+" deal")
	}
	if title := strings.TrimSpace(r.Title); title != "" && IsSeniorTitle(title) {
		context = append(context, title)
	}
	if len(context) == 0 {
		return text
	}
	return strings.Join(context, ", ") + ": " + text
}

func roleHint(role string) string {
	if strings.TrimSpace(role) == "" {
		return ""
	}
	switch models.NormalizeRole(role) {
	case models.RoleDecisionMaker:
		return "go direct and ask for the decision"
	case models.RoleChampion:
		return "nurture the relationship and arm them to sell internally"
	case models.RoleBlocker:
		return "surface and handle objections"
	case models.RoleIntroducer:
		return "ask for an introduction to the decision maker"
	default:
		return "keep the stakeholder informed"
	}
}

// FormatAmount renders a USD amount compactly: $150K, $1.2M.
func FormatAmount(amount float64) string {
	switch {
	case amount >= 1_000_000:
		s := fmt.Sprintf("%.1f", amount/1_000_000)
		return "$" + strings.TrimSuffix(s, ".0") + "M"
	case amount >= 1_000:
		return fmt.Sprintf("$%.0fK", amount/1_000)
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}

var seniorPhrases = []string{"chief", "president", "founder", "head of", "director", "partner"}

// IsSeniorTitle reports whether a job title is C-level, VP, director or equivalent.
func IsSeniorTitle(title string) bool {
	t := strings.ToLower(title)
	for _, p := range seniorPhrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	for _, word := range strings.FieldsFunc(t, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	}) {
		switch {
		case word == "vp", word == "svp", word == "evp", word == "owner":
			return true
		case len(word) == 3 && word[0] == 'c' && word[2] == 'o':
			// ceo, cfo, cto, coo, cmo, cro
			return true
		}
	}
	return false
}
