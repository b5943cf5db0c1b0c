// ABOUTME: Tests for speedrun outcomes and activity entries
// ABOUTME: Covers outcome parsing, retry versus done, and change tracking
package activity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		in   string
		want Outcome
	}{
		{"connected", OutcomeConnected},
		{"Voicemail", OutcomeVoicemail},
		{"no answer", OutcomeNoAnswer},
		{"demo_scheduled", OutcomeDemoScheduled},
		{" WRONG-NUMBER ", OutcomeWrongNumber},
	}
	for _, tt := range tests {
		got, err := ParseOutcome(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseOutcome("ghosted")
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestOutcomeVerbAndStatus(t *testing.T) {
	for _, o := range []Outcome{OutcomeVoicemail, OutcomeNoAnswer, OutcomeBusy} {
		assert.Equal(t, VerbAttempted, o.Verb(), o)
		assert.Equal(t, models.StatusContacted, o.RecordStatus(), o)
	}
	for _, o := range []Outcome{OutcomeConnected, OutcomePitched, OutcomeDemoScheduled, OutcomeNotInterested, OutcomeWrongNumber} {
		assert.Equal(t, VerbCompleted, o.Verb(), o)
		assert.Equal(t, models.StatusCompleted, o.RecordStatus(), o)
	}
}

func TestApplyMovesRecordInOrOutOfQueue(t *testing.T) {
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	r := models.Record{ID: uuid.New(), Name: "Lead", Email: "l@x.test", Status: models.StatusNew}

	retry := Apply(r, OutcomeVoicemail, at)
	assert.True(t, rtp.Eligible(retry))
	assert.Equal(t, models.TimestampOf(at), retry.LastContactDate)

	done := Apply(r, OutcomeConnected, at)
	assert.False(t, rtp.Eligible(done))
}

func TestNewRecordsChanges(t *testing.T) {
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	r := models.Record{ID: uuid.New(), Status: models.StatusNew, LastContactDate: "2025-02-01"}

	a := New("tester", r, OutcomeBusy, "  try after lunch ", at)
	assert.Equal(t, r.ID, a.RecordID)
	assert.Equal(t, VerbAttempted, a.Verb)
	assert.Equal(t, "try after lunch", a.Notes)
	assert.Equal(t, Change{Before: models.StatusNew, After: models.StatusContacted}, a.Changes["status"])
	assert.Equal(t, "2025-02-01", a.Changes["last_contact_date"].Before)

	r.Status = models.StatusContacted
	a = New("tester", r, OutcomeNoAnswer, "", at)
	_, changed := a.Changes["status"]
	assert.False(t, changed)
}
