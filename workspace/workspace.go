// ABOUTME: Binds the workspace store to the prioritization engine
// ABOUTME: Builds per-pass engines from the stored profile, holidays and the user's timezone
package workspace

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/speedrun/activity"
	"github.com/harperreed/speedrun/calendar"
	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
	"github.com/harperreed/speedrun/rtp"
)

// Workspace is everything a ranking pass needs besides the records.
type Workspace struct {
	DB       *sql.DB
	UserID   string
	Location *time.Location
	Holidays []calendar.Holiday
	Clock    func() time.Time
}

// Now reads the workspace clock. The engine never reads the wall clock itself.
func (w *Workspace) Now() time.Time {
	if w.Clock != nil {
		return w.Clock()
	}
	return time.Now()
}

// Calendar layers stored and configured holidays over the federal set.
func (w *Workspace) Calendar() (*calendar.Calendar, error) {
	stored, err := db.ListHolidays(w.DB, 0)
	if err != nil {
		return nil, err
	}
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	return calendar.New(loc, calendar.WithHolidays(append(stored, w.Holidays...)...)), nil
}

// Profile loads the user's RTP profile.
func (w *Workspace) Profile() (models.Profile, error) {
	return db.GetProfile(w.DB, w.UserID)
}

// Engine snapshots the current profile and calendar into a new engine.
func (w *Workspace) Engine() (*rtp.Engine, error) {
	p, err := w.Profile()
	if err != nil {
		return nil, err
	}
	return w.EngineFor(p)
}

// EngineFor builds an engine for an explicit profile, e.g. a strategy preview.
func (w *Workspace) EngineFor(p models.Profile) (*rtp.Engine, error) {
	cal, err := w.Calendar()
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar: %w", err)
	}
	return rtp.New(p, rtp.WithCalendar(cal)), nil
}

// ApplyStrategy swaps the user's profile for a preset and stores it.
func (w *Workspace) ApplyStrategy(s models.Strategy) (models.Profile, error) {
	p, err := models.PresetProfile(s)
	if err != nil {
		return models.Profile{}, err
	}
	if err := db.SaveProfile(w.DB, w.UserID, p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// Rank runs a ranking pass over every record of a kind (empty for all).
func (w *Workspace) Rank(kind models.RecordKind) ([]rtp.Ranked, *rtp.Engine, error) {
	e, err := w.Engine()
	if err != nil {
		return nil, nil, err
	}
	records, err := db.FindRecords(w.DB, kind, "", 0)
	if err != nil {
		return nil, nil, err
	}
	return e.Rank(records, w.Now()), e, nil
}

// Queue builds the speedrun queue over every stored record.
func (w *Workspace) Queue(limit int) ([]rtp.Ranked, *rtp.Engine, error) {
	e, err := w.Engine()
	if err != nil {
		return nil, nil, err
	}
	records, err := db.FindRecords(w.DB, "", "", 0)
	if err != nil {
		return nil, nil, err
	}
	return e.Queue(records, w.Now(), limit), e, nil
}

// EnsureProfile stores the preset for s when the user has no profile yet.
// An existing profile is left alone.
func (w *Workspace) EnsureProfile(s models.Strategy) error {
	exists, err := db.ProfileExists(w.DB, w.UserID)
	if err != nil || exists {
		return err
	}
	_, err = w.ApplyStrategy(s)
	return err
}

// Complete applies a speedrun outcome to a record as the workspace user, now.
func (w *Workspace) Complete(id uuid.UUID, outcome activity.Outcome, notes string) (*models.Record, *activity.Activity, error) {
	return db.CompleteRecord(w.DB, w.UserID, id, outcome, notes, w.Now())
}
