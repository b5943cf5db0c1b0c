// ABOUTME: Record snapshot database operations
// ABOUTME: Handles CRUD, search by kind and text, company lookups and contact logging
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/speedrun/models"
)

const recordColumns = `id, kind, type, name, title, company, email, phone, status, stage, priority,
	amount, probability, buyer_group_role, risk_level, competitors, industry, employees, revenue,
	last_contact_date, last_engagement_at, last_email_at, last_activity_at, next_action_date,
	expected_close_date, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.Record, error) {
	var r models.Record
	var id, kind, competitors string
	var probability sql.NullFloat64
	var updatedAt sql.NullTime

	err := s.Scan(
		&id, &kind, &r.Type, &r.Name, &r.Title, &r.Company, &r.Email, &r.Phone,
		&r.Status, &r.Stage, &r.Priority, &r.Amount, &probability, &r.BuyerGroupRole,
		&r.RiskLevel, &competitors, &r.Industry, &r.Employees, &r.Revenue,
		&r.LastContactDate, &r.LastEngagementAt, &r.LastEmailAt, &r.LastActivityAt,
		&r.NextActionDate, &r.ExpectedCloseDate, &r.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record id %q: %w", id, err)
	}
	r.Kind = models.RecordKind(kind)
	if probability.Valid {
		p := probability.Float64
		r.Probability = &p
	}
	if updatedAt.Valid {
		r.UpdatedAt = updatedAt.Time
	}
	if competitors != "" {
		if err := json.Unmarshal([]byte(competitors), &r.Competitors); err != nil {
			return nil, fmt.Errorf("failed to decode competitors: %w", err)
		}
	}
	return &r, nil
}

func recordArgs(r *models.Record) ([]any, error) {
	competitors := r.Competitors
	if competitors == nil {
		competitors = []string{}
	}
	encoded, err := json.Marshal(competitors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode competitors: %w", err)
	}

	var probability any
	if r.Probability != nil {
		probability = *r.Probability
	}
	var updatedAt any
	if !r.UpdatedAt.IsZero() {
		updatedAt = r.UpdatedAt
	}

	return []any{
		r.ID.String(), string(r.Kind), r.Type, r.Name, r.Title, r.Company, r.Email, r.Phone,
		r.Status, r.Stage, r.Priority, r.Amount, probability, r.BuyerGroupRole,
		r.RiskLevel, string(encoded), r.Industry, r.Employees, r.Revenue,
		string(r.LastContactDate), string(r.LastEngagementAt), string(r.LastEmailAt), string(r.LastActivityAt),
		string(r.NextActionDate), string(r.ExpectedCloseDate), r.CreatedAt, updatedAt,
	}, nil
}

// CreateRecord stores a new snapshot. A nil ID is assigned and a zero CreatedAt
// defaults to now. UpdatedAt is kept as supplied: it is the source system's
// modification time and feeds staleness.
func CreateRecord(db *sql.DB, r *models.Record) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Kind == "" {
		r.Kind = models.KindLead
	}

	args, err := recordArgs(r)
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// GetRecord loads one record. Returns ErrNotFound when missing.
func GetRecord(db *sql.DB, id uuid.UUID) (*models.Record, error) {
	row := db.QueryRow(`SELECT `+recordColumns+` FROM records WHERE id = ?`, id.String())
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return r, nil
}

// UpdateRecord replaces every column of an existing record.
func UpdateRecord(db *sql.DB, r *models.Record) error {
	args, err := recordArgs(r)
	if err != nil {
		return err
	}

	// Drop id from the front and re-append it for the WHERE clause.
	args = append(args[1:], r.ID.String())
	result, err := db.Exec(`
		UPDATE records SET kind = ?, type = ?, name = ?, title = ?, company = ?, email = ?, phone = ?,
			status = ?, stage = ?, priority = ?, amount = ?, probability = ?, buyer_group_role = ?,
			risk_level = ?, competitors = ?, industry = ?, employees = ?, revenue = ?,
			last_contact_date = ?, last_engagement_at = ?, last_email_at = ?, last_activity_at = ?,
			next_action_date = ?, expected_close_date = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return expectOneRow(result)
}

// DeleteRecord removes a record.
func DeleteRecord(db *sql.DB, id uuid.UUID) error {
	result, err := db.Exec(`DELETE FROM records WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return expectOneRow(result)
}

// FindRecords searches by kind (empty for all) and a case-insensitive query
// over name, company and email. A limit of zero or less returns every match.
func FindRecords(db *sql.DB, kind models.RecordKind, query string, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = -1
	}

	var where []string
	var args []any
	if kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(kind))
	}
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(email) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	stmt := `SELECT ` + recordColumns + ` FROM records`
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY created_at ASC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// FindCompanyRecords returns every record attached to a company name (case-insensitive).
func FindCompanyRecords(db *sql.DB, company string) ([]models.Record, error) {
	rows, err := db.Query(`SELECT `+recordColumns+` FROM records WHERE LOWER(company) = LOWER(?) ORDER BY created_at ASC`, strings.TrimSpace(company))
	if err != nil {
		return nil, fmt.Errorf("failed to find company records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// LogContact stamps a touch on the record. New and uncontacted records move to contacted.
func LogContact(db *sql.DB, id uuid.UUID, at time.Time) error {
	result, err := db.Exec(`
		UPDATE records
		SET last_contact_date = ?,
			updated_at = ?,
			status = CASE WHEN LOWER(status) IN ('new', 'uncontacted') THEN 'contacted' ELSE status END
		WHERE id = ?
	`, string(models.TimestampOf(at)), at, id.String())
	if err != nil {
		return fmt.Errorf("failed to log contact: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
