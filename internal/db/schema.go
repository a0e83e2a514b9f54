package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Countdowns are append-only: triggers
// reject any UPDATE or DELETE.
const schema = `
CREATE TABLE IF NOT EXISTS countdowns (
    id          TEXT PRIMARY KEY,
    label       TEXT NOT NULL CHECK (length(label) > 0),
    type        TEXT NOT NULL CHECK (type IN ('Birthday', 'Anniversary', 'Event', 'Holiday', 'Launch', 'Custom')),
    date        TEXT NOT NULL,
    time        TEXT,
    description TEXT,
    image_ref   TEXT,
    created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_countdowns_created_at ON countdowns(created_at);

CREATE TRIGGER IF NOT EXISTS countdowns_no_update BEFORE UPDATE ON countdowns
BEGIN
    SELECT RAISE(ABORT, 'countdowns are immutable');
END;

CREATE TRIGGER IF NOT EXISTS countdowns_no_delete BEFORE DELETE ON countdowns
BEGIN
    SELECT RAISE(ABORT, 'countdowns are immutable');
END;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables, indexes and triggers if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
