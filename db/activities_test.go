// ABOUTME: Tests for the activity log
// ABOUTME: Covers outcome completion, retry outcomes and timeline ordering
package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/speedrun/activity"
	"github.com/harperreed/speedrun/models"
)

func TestCompleteRecordDone(t *testing.T) {
	db := setupTestDB(t)
	r := &models.Record{Name: "Lead", Email: "lead@x.test", Status: models.StatusNew}
	require.NoError(t, CreateRecord(db, r))

	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	updated, entry, err := CompleteRecord(db, "tester", r.ID, activity.OutcomeDemoScheduled, "Thursday 2pm", at)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, activity.VerbCompleted, entry.Verb)

	got, err := GetRecord(db, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, models.TimestampOf(at), got.LastContactDate)

	history, err := ListActivities(db, r.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "tester", history[0].UserID)
	assert.Equal(t, activity.OutcomeDemoScheduled, history[0].Outcome)
	assert.Equal(t, "Thursday 2pm", history[0].Notes)
	assert.Equal(t, activity.Change{Before: models.StatusNew, After: models.StatusCompleted}, history[0].Changes["status"])
}

func TestCompleteRecordAttemptKeepsRecordOpen(t *testing.T) {
	db := setupTestDB(t)
	r := &models.Record{Name: "Lead", Phone: "555-0100", Status: models.StatusNew}
	require.NoError(t, CreateRecord(db, r))

	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	_, _, err := CompleteRecord(db, "tester", r.ID, activity.OutcomeVoicemail, "", at)
	require.NoError(t, err)
	_, _, err = CompleteRecord(db, "tester", r.ID, activity.OutcomeNoAnswer, "", at.Add(time.Hour))
	require.NoError(t, err)

	got, err := GetRecord(db, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusContacted, got.Status)

	history, err := ListActivities(db, r.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, activity.OutcomeNoAnswer, history[0].Outcome)
	assert.Empty(t, history[0].Changes["status"].After)

	history, err = ListActivities(db, r.ID, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCompleteRecordNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, _, err := CompleteRecord(db, "tester", uuid.New(), activity.OutcomeConnected, "", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveActivityDefaults(t *testing.T) {
	db := setupTestDB(t)
	r := &models.Record{Name: "Lead", Email: "lead@x.test"}
	require.NoError(t, CreateRecord(db, r))

	a := &activity.Activity{RecordID: r.ID, UserID: "tester", Verb: activity.VerbAttempted, Outcome: activity.OutcomeBusy}
	require.NoError(t, SaveActivity(db, a))
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.False(t, a.At.IsZero())

	history, err := ListActivities(db, r.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].Changes)
}
