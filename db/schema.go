// ABOUTME: Database schema definitions
// ABOUTME: Record snapshots, per-user RTP profiles, imported holidays and the activity log
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL CHECK(kind IN ('lead', 'prospect', 'opportunity', 'account', 'person')),
	type TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	stage TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT '',
	amount REAL NOT NULL DEFAULT 0,
	probability REAL,
	buyer_group_role TEXT NOT NULL DEFAULT '',
	risk_level TEXT NOT NULL DEFAULT '',
	competitors TEXT NOT NULL DEFAULT '[]',
	industry TEXT NOT NULL DEFAULT '',
	employees INTEGER NOT NULL DEFAULT 0,
	revenue REAL NOT NULL DEFAULT 0,
	last_contact_date TEXT NOT NULL DEFAULT '',
	last_engagement_at TEXT NOT NULL DEFAULT '',
	last_email_at TEXT NOT NULL DEFAULT '',
	last_activity_at TEXT NOT NULL DEFAULT '',
	next_action_date TEXT NOT NULL DEFAULT '',
	expected_close_date TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
CREATE INDEX IF NOT EXISTS idx_records_company ON records(company);
CREATE INDEX IF NOT EXISTS idx_records_email ON records(email);

CREATE TABLE IF NOT EXISTS rtp_profiles (
	user_id TEXT PRIMARY KEY,
	profile TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS holidays (
	date TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT 'manual'
);

CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	record_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	verb TEXT NOT NULL,
	outcome TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	changes TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL,
	FOREIGN KEY (record_id) REFERENCES records(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_activities_record ON activities(record_id, created_at);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
