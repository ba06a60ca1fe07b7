package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the idempotent DDL for all four collections. A missing
// or empty database file therefore comes up as empty stores rather
// than an error, which covers both first runs and recovery after the
// file was removed.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		email           TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		password_digest TEXT NOT NULL,
		created_at      TEXT NOT NULL,
		last_login      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		email       TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		model_name  TEXT NOT NULL,
		input_text  TEXT NOT NULL,
		attachments TEXT NOT NULL DEFAULT '[]',
		output_text TEXT NOT NULL,
		response_id TEXT NOT NULL UNIQUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_email ON history (email, id)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		email       TEXT NOT NULL,
		response_id TEXT NOT NULL,
		rating      TEXT NOT NULL CHECK (rating IN ('positive', 'negative')),
		created_at  TEXT NOT NULL,
		PRIMARY KEY (email, response_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		email      TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		revoked_at TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_email ON sessions (email)`,
}

// Migrate applies the schema statements in order. Every statement is
// idempotent, so Migrate is safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
