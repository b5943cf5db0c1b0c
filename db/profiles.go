// ABOUTME: RTP profile persistence
// ABOUTME: Stores one validated profile per user as JSON, falling back to the default profile
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/speedrun/models"
)

// SaveProfile validates and upserts a user's profile.
func SaveProfile(db *sql.DB, userID string, p models.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO rtp_profiles (user_id, profile, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET profile = excluded.profile, updated_at = excluded.updated_at
	`, userID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile loads a user's profile, or the default profile if none is stored.
func GetProfile(db *sql.DB, userID string) (models.Profile, error) {
	var data string
	err := db.QueryRow(`SELECT profile FROM rtp_profiles WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultProfile(), nil
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var p models.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p, nil
}

// ProfileExists reports whether a profile has been stored for the user.
func ProfileExists(db *sql.DB, userID string) (bool, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM rtp_profiles WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return n > 0, nil
}
