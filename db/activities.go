// ABOUTME: Activity log database operations
// ABOUTME: Records speedrun outcomes and applies their status change in one transaction
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/speedrun/activity"
	"github.com/harperreed/speedrun/models"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertActivity(x execer, a *activity.Activity) error {
	changes := a.Changes
	if changes == nil {
		changes = map[string]activity.Change{}
	}
	encoded, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes: %w", err)
	}

	_, err = x.Exec(`
		INSERT INTO activities (id, record_id, user_id, verb, outcome, notes, changes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID.String(), a.RecordID.String(), a.UserID, string(a.Verb), string(a.Outcome), a.Notes, string(encoded), a.At)
	if err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}
	return nil
}

// SaveActivity appends an entry to a record's timeline.
func SaveActivity(db *sql.DB, a *activity.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}
	return insertActivity(db, a)
}

// ListActivities returns a record's timeline, newest first.
// A limit of zero or less returns every entry.
func ListActivities(db *sql.DB, recordID uuid.UUID, limit int) ([]activity.Activity, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.Query(`
		SELECT id, record_id, user_id, verb, outcome, notes, changes, created_at
		FROM activities
		WHERE record_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, recordID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		var a activity.Activity
		var id, rid, verb, outcome, changes string
		if err := rows.Scan(&id, &rid, &a.UserID, &verb, &outcome, &a.Notes, &changes, &a.At); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse activity id %q: %w", id, err)
		}
		if a.RecordID, err = uuid.Parse(rid); err != nil {
			return nil, fmt.Errorf("failed to parse record id %q: %w", rid, err)
		}
		a.Verb = activity.Verb(verb)
		a.Outcome = activity.Outcome(outcome)
		if changes != "" && changes != "{}" {
			if err := json.Unmarshal([]byte(changes), &a.Changes); err != nil {
				return nil, fmt.Errorf("failed to decode changes: %w", err)
			}
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// CompleteRecord applies a speedrun outcome to a record and logs it.
// Returns the updated record and the new activity, or ErrNotFound.
func CompleteRecord(db *sql.DB, userID string, id uuid.UUID, outcome activity.Outcome, notes string, at time.Time) (*models.Record, *activity.Activity, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	before, err := scanRecord(tx.QueryRow(`SELECT `+recordColumns+` FROM records WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get record: %w", err)
	}

	entry := activity.New(strings.TrimSpace(userID), *before, outcome, notes, at)
	after := activity.Apply(*before, outcome, at)
	after.UpdatedAt = at

	_, err = tx.Exec(`UPDATE records SET status = ?, last_contact_date = ?, updated_at = ? WHERE id = ?`,
		after.Status, string(after.LastContactDate), at, id.String())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update record: %w", err)
	}
	if err := insertActivity(tx, entry); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &after, entry, nil
}
