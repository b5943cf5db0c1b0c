// ABOUTME: Imported holiday persistence
// ABOUTME: Upserts holiday dates by source and lists them for calendar construction
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/speedrun/calendar"
)

// SaveHolidays upserts holidays from a source and returns how many were written.
// Rows with malformed dates are skipped.
func SaveHolidays(db *sql.DB, source string, holidays []calendar.Holiday) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO holidays (date, name, source) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET name = excluded.name, source = excluded.source
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare holiday insert: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, h := range holidays {
		if _, err := time.Parse(calendar.DateLayout, h.Date); err != nil {
			continue
		}
		if _, err := stmt.Exec(h.Date, h.Name, source); err != nil {
			return 0, fmt.Errorf("failed to save holiday %s: %w", h.Date, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit holidays: %w", err)
	}
	return saved, nil
}

// ListHolidays returns stored holidays for a year, or all of them when year is 0.
func ListHolidays(db *sql.DB, year int) ([]calendar.Holiday, error) {
	query := `SELECT date, name FROM holidays`
	var args []any
	if year != 0 {
		query += ` WHERE date LIKE ?`
		args = append(args, fmt.Sprintf("%04d-%%", year))
	}
	query += ` ORDER BY date ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
