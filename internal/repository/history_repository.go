package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iliyamo/ai-assistant-api/internal/model"
)

// HistoryRepo is the append-only half of the interaction ledger: one
// ordered sequence of completed exchanges per identity. Entries are
// never mutated; rowid is the canonical order.
type HistoryRepo struct{ DB *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{DB: db} }

// Append inserts one history entry at the tail of the identity's
// sequence. A first entry for an unseen identity needs no setup.
// The response_id UNIQUE constraint enforces system-wide uniqueness
// of response identifiers.
func (r *HistoryRepo) Append(ctx context.Context, e model.HistoryEntry) error {
	if e.Email == "" || e.ResponseID == "" {
		return ErrInvalidInput
	}
	attachments, err := json.Marshal(e.Input.Attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO history (email, created_at, model_name, input_text, attachments, output_text, response_id) VALUES (?,?,?,?,?,?,?)",
		e.Email, fmtTime(created), e.ModelName, e.Input.Text, string(attachments), e.Output, e.ResponseID)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// List returns every entry for the identity, oldest first. An unknown
// identity yields an empty slice, not an error.
func (r *HistoryRepo) List(ctx context.Context, email string) ([]model.HistoryEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT email, created_at, model_name, input_text, attachments, output_text, response_id FROM history WHERE email=? ORDER BY id",
		email)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// ListRecent returns the newest n entries for the identity, still
// ordered oldest first so callers can render them top to bottom.
func (r *HistoryRepo) ListRecent(ctx context.Context, email string, n int) ([]model.HistoryEntry, error) {
	if n <= 0 {
		return []model.HistoryEntry{}, nil
	}
	// The subquery grabs the tail by descending rowid; the outer
	// SELECT restores insertion order.
	rows, err := r.DB.QueryContext(ctx,
		`SELECT email, created_at, model_name, input_text, attachments, output_text, response_id FROM (
			SELECT * FROM history WHERE email=? ORDER BY id DESC LIMIT ?
		) ORDER BY id`,
		email, n)
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// Count returns the number of history entries for the identity.
func (r *HistoryRepo) Count(ctx context.Context, email string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM history WHERE email=?", email).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

func scanHistory(rows *sql.Rows) ([]model.HistoryEntry, error) {
	out := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		var created, attachments string
		if err := rows.Scan(&e.Email, &created, &e.ModelName, &e.Input.Text, &attachments, &e.Output, &e.ResponseID); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.CreatedAt = parseTime(created)
		if err := json.Unmarshal([]byte(attachments), &e.Input.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
