// ABOUTME: Data models for CRM record snapshots and evaluation results
// ABOUTME: Defines Record, Timestamp, lifecycle constants, and the Evaluation output
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecordKind tags which CRM table a record snapshot came from.
type RecordKind string

const (
	KindLead        RecordKind = "lead"
	KindProspect    RecordKind = "prospect"
	KindOpportunity RecordKind = "opportunity"
	KindAccount     RecordKind = "account"
	KindPerson      RecordKind = "person"
)

// RecordKinds lists every kind in display order.
var RecordKinds = []RecordKind{KindLead, KindProspect, KindOpportunity, KindAccount, KindPerson}

// ParseRecordKind normalizes a user-supplied kind. Plural forms are accepted.
func ParseRecordKind(s string) (RecordKind, bool) {
	k := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	if k == "opportunitie" {
		k = "opportunity"
	}
	if k == "people" {
		k = "person"
	}
	for _, kind := range RecordKinds {
		if string(kind) == k {
			return kind, true
		}
	}
	return "", false
}

// TypePartner marks records that never take part in ranking.
const TypePartner = "partner"

// Lifecycle status constants.
const (
	StatusNew           = "new"
	StatusUncontacted   = "uncontacted"
	StatusContacted     = "contacted"
	StatusEngaged       = "engaged"
	StatusResponded     = "responded"
	StatusQualified     = "qualified"
	StatusDemoScheduled = "demo-scheduled"
	StatusClosedWon     = "closed-won"
	StatusClosedLost    = "closed-lost"
	StatusCompleted     = "completed"
)

// Pipeline stage constants (normalized form).
const (
	StageProspecting   = "prospecting"
	StageQualification = "qualification"
	StageDiscovery     = "discovery"
	StageNeedsAnalysis = "needs_analysis"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosedWon     = "closed_won"
	StageClosedLost    = "closed_lost"
)

// Priority flag constants.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Buyer group roles.
const (
	RoleDecisionMaker = "Decision Maker"
	RoleChampion      = "Champion"
	RoleStakeholder   = "Stakeholder"
	RoleBlocker       = "Blocker"
	RoleIntroducer    = "Introducer"
)

// Competitive risk levels.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// NormalizeStage lowercases a stage and folds spaces and hyphens into underscores.
func NormalizeStage(stage string) string {
	s := strings.ToLower(strings.TrimSpace(stage))
	s = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(s)
	return s
}

// NormalizeStatus lowercases a status and folds spaces and underscores into hyphens.
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	return s
}

// NormalizeRole maps loosely typed buyer roles onto the canonical names.
// Unknown or empty roles come back empty.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(role))) {
	case "decision maker", "decisionmaker", "economic buyer":
		return RoleDecisionMaker
	case "champion":
		return RoleChampion
	case "stakeholder", "influencer":
		return RoleStakeholder
	case "blocker":
		return RoleBlocker
	case "introducer":
		return RoleIntroducer
	}
	return ""
}

// Timestamp is a date as received from a collaborator. It is parsed lazily so
// malformed values degrade to "absent" instead of failing the evaluation.
type Timestamp string

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time parses the timestamp. The second return is false when empty or malformed.
// Values without a zone are read as UTC.
func (t Timestamp) Time() (time.Time, bool) {
	return t.TimeIn(time.UTC)
}

// TimeIn parses the timestamp, reading zoneless values such as bare dates in loc.
func (t Timestamp) TimeIn(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, loc); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Set reports whether the timestamp carries any value, parseable or not.
func (t Timestamp) Set() bool {
	return strings.TrimSpace(string(t)) != ""
}

// TimestampOf formats a time as an RFC3339 Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.Format(time.RFC3339))
}

// Record is an immutable snapshot of a CRM row handed to the engine.
type Record struct {
	ID      uuid.UUID  `json:"id"`
	Kind    RecordKind `json:"kind"`
	Type    string     `json:"type,omitempty"`
	Name    string     `json:"name"`
	Title   string     `json:"title,omitempty"`
	Company string     `json:"company,omitempty"`
	Email   string     `json:"email,omitempty"`
	Phone   string     `json:"phone,omitempty"`

	Status   string `json:"status,omitempty"`
	Stage    string `json:"stage,omitempty"`
	Priority string `json:"priority,omitempty"`

	Amount         float64  `json:"amount,omitempty"` // USD
	Probability    *float64 `json:"probability,omitempty"`
	BuyerGroupRole string   `json:"buyer_group_role,omitempty"`
	RiskLevel      string   `json:"risk_level,omitempty"`
	Competitors    []string `json:"competitors,omitempty"`

	Industry  string  `json:"industry,omitempty"`
	Employees int     `json:"employees,omitempty"`
	Revenue   float64 `json:"revenue,omitempty"` // USD

	LastContactDate   Timestamp `json:"last_contact_date,omitempty"`
	LastEngagementAt  Timestamp `json:"last_engagement_at,omitempty"`
	LastEmailAt       Timestamp `json:"last_email_at,omitempty"`
	LastActivityAt    Timestamp `json:"last_activity_at,omitempty"`
	NextActionDate    Timestamp `json:"next_action_date,omitempty"`
	ExpectedCloseDate Timestamp `json:"expected_close_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPartner reports whether the record is excluded from ranking.
func (r Record) IsPartner() bool {
	return strings.EqualFold(strings.TrimSpace(r.Type), TypePartner)
}

// HasContactChannel reports whether there is any way to reach the record.
func (r Record) HasContactChannel() bool {
	return strings.TrimSpace(r.Email) != "" || strings.TrimSpace(r.Phone) != ""
}

// Urgency is the abstract recommendation timing, independent of the calendar.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyUrgent    Urgency = "urgent"
	UrgencySoon      Urgency = "soon"
	UrgencyRoutine   Urgency = "routine"
	UrgencyFuture    Urgency = "future"
)

// Severity orders urgency levels, 0 being the most severe.
func (u Urgency) Severity() int {
	switch u {
	case UrgencyImmediate:
		return 0
	case UrgencyUrgent:
		return 1
	case UrgencySoon:
		return 2
	case UrgencyRoutine:
		return 3
	default:
		return 4
	}
}

// Timing is a rendered timing pill: label, tier and color class.
type Timing struct {
	Label string `json:"label"`
	Tier  string `json:"tier"`
	Color string `json:"color"`
}

// Color classes shared by staleness tiers and urgency tiers.
const (
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorBlue   = "blue"
	ColorGray   = "gray"
)

// RankSentinel is shown instead of a number for records excluded from ranking.
const RankSentinel = "-"

// Factor names used in score breakdowns.
const (
	FactorDealSize             = "deal_size"
	FactorCloseProbability     = "close_probability"
	FactorUrgency              = "urgency"
	FactorRelationshipStrength = "relationship_strength"
	FactorCompetitiveRisk      = "competitive_risk"
)

// Evaluation is the transient per-record output. It is recomputed on every call.
type Evaluation struct {
	RecordID          uuid.UUID          `json:"record_id"`
	LastActionTiming  Timing             `json:"last_action_timing"`
	NextActionTiming  Timing             `json:"next_action_timing"`
	RecommendedAction string             `json:"recommended_action"`
	Urgency           Urgency            `json:"urgency"`
	Score             float64            `json:"score"`
	Importance        float64            `json:"importance"`
	Overdue           bool               `json:"overdue"`
	Breakdown         map[string]float64 `json:"breakdown,omitempty"`
	Rank              int                `json:"rank,omitempty"`
	RankLabel         string             `json:"rank_label,omitempty"`
}
