// ABOUTME: Activity entries for the per-record speedrun timeline
// ABOUTME: Maps call outcomes onto completion states and records status changes
package activity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/speedrun/models"
)

// Verb is what happened to the record.
type Verb string

const (
	VerbCompleted Verb = "completed"
	VerbAttempted Verb = "attempted"
)

// Outcome is how a speedrun touch ended.
type Outcome string

const (
	OutcomeConnected     Outcome = "connected"
	OutcomePitched       Outcome = "pitched"
	OutcomeDemoScheduled Outcome = "demo-scheduled"
	OutcomeVoicemail     Outcome = "voicemail"
	OutcomeNoAnswer      Outcome = "no-answer"
	OutcomeBusy          Outcome = "busy"
	OutcomeNotInterested Outcome = "not-interested"
	OutcomeWrongNumber   Outcome = "wrong-number"
)

// Outcomes lists every accepted outcome.
var Outcomes = []Outcome{
	OutcomeConnected, OutcomePitched, OutcomeDemoScheduled, OutcomeVoicemail,
	OutcomeNoAnswer, OutcomeBusy, OutcomeNotInterested, OutcomeWrongNumber,
}

var ErrUnknownOutcome = errors.New("unknown outcome")

// ParseOutcome accepts outcomes in any case, with spaces or underscores for hyphens.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(models.NormalizeStatus(s))
	for _, known := range Outcomes {
		if o == known {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

// Verb reports whether the outcome finishes the record or leaves it for a retry.
// Unreached outcomes stay in the queue.
func (o Outcome) Verb() Verb {
	switch o {
	case OutcomeVoicemail, OutcomeNoAnswer, OutcomeBusy:
		return VerbAttempted
	default:
		return VerbCompleted
	}
}

// RecordStatus is the lifecycle status a record moves to after the outcome.
// Completed records land in a terminal status and leave the queue.
func (o Outcome) RecordStatus() string {
	if o.Verb() == VerbAttempted {
		return models.StatusContacted
	}
	return models.StatusCompleted
}

// Change is a before/after pair for one field.
type Change struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Activity is one entry in a record's timeline.
type Activity struct {
	ID       uuid.UUID         `json:"id"`
	RecordID uuid.UUID         `json:"record_id"`
	UserID   string            `json:"user_id"`
	Verb     Verb              `json:"verb"`
	Outcome  Outcome           `json:"outcome"`
	Notes    string            `json:"notes,omitempty"`
	Changes  map[string]Change `json:"changes,omitempty"`
	At       time.Time         `json:"at"`
}

// New builds the timeline entry for an outcome on a record.
func New(userID string, record models.Record, outcome Outcome, notes string, at time.Time) *Activity {
	return &Activity{
		ID:       uuid.New(),
		RecordID: record.ID,
		UserID:   userID,
		Verb:     outcome.Verb(),
		Outcome:  outcome,
		Notes:    strings.TrimSpace(notes),
		Changes:  calculateChanges(record, outcome, at),
		At:       at,
	}
}

// Apply returns the record as it looks after the outcome.
func Apply(record models.Record, outcome Outcome, at time.Time) models.Record {
	record.Status = outcome.RecordStatus()
	record.LastContactDate = models.TimestampOf(at)
	return record
}

func calculateChanges(before models.Record, outcome Outcome, at time.Time) map[string]Change {
	after := Apply(before, outcome, at)
	changes := make(map[string]Change)
	if before.Status != after.Status {
		changes["status"] = Change{Before: before.Status, After: after.Status}
	}
	if before.LastContactDate != after.LastContactDate {
		changes["last_contact_date"] = Change{Before: string(before.LastContactDate), After: string(after.LastContactDate)}
	}
	return changes
}
