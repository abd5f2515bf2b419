package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL,
    password_hash BYTEA NOT NULL,
    palm_digest TEXT NOT NULL UNIQUE,
    bio TEXT NOT NULL DEFAULT '',
    company TEXT NOT NULL DEFAULT '',
    job_title TEXT NOT NULL DEFAULT '',
    profile_picture TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    contact_type TEXT NOT NULL,
    contact_value TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS scan_history (
    id TEXT PRIMARY KEY,
    scanner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    scanned_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    time_scanned TIMESTAMP NOT NULL,
    profile_snapshot JSONB NOT NULL,
    contacts_snapshot JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS scan_history_scanner_idx ON scan_history (scanner_id, time_scanned DESC);
CREATE INDEX IF NOT EXISTS scan_history_scanned_idx ON scan_history (scanned_id, time_scanned DESC);
`

// InitPostgres opens the database, verifies connectivity and applies the
// schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
