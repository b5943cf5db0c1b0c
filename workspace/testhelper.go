// ABOUTME: Test utilities for creating isolated workspaces
// ABOUTME: Uses in-memory SQLite with a fixed clock for deterministic rankings

package workspace

import (
	"testing"
	"time"

	"github.com/harperreed/speedrun/db"
	"github.com/harperreed/speedrun/models"
)

// NewTestWorkspace opens an in-memory store whose clock is pinned to now.
func NewTestWorkspace(t *testing.T, now time.Time) *Workspace {
	t.Helper()

	database, err := db.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return &Workspace{
		DB:       database,
		UserID:   "tester",
		Location: time.UTC,
		Clock:    func() time.Time { return now },
	}
}

// MustCreate stores a record or fails the test.
func (w *Workspace) MustCreate(t *testing.T, r models.Record) models.Record {
	t.Helper()
	if err := db.CreateRecord(w.DB, &r); err != nil {
		t.Fatalf("Failed to create record %q: %v", r.Name, err)
	}
	return r
}
