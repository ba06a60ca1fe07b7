package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/ai-assistant-api/internal/model"
)

// FeedbackRepo is the feedback half of the interaction ledger. The
// (email, response_id) primary key keeps the sequence at one entry
// per distinct response per identity.
type FeedbackRepo struct{ DB *sql.DB }

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{DB: db} }

// Upsert records feedback for a response. A resubmission for the same
// response replaces the prior entry: the old row is deleted and the
// new one appended inside one transaction, so the stored rating and
// timestamp always reflect the latest submission and the entry moves
// to the tail of the sequence.
func (r *FeedbackRepo) Upsert(ctx context.Context, e model.FeedbackEntry) error {
	if e.Email == "" || e.ResponseID == "" {
		return ErrInvalidInput
	}
	if !model.ValidRating(e.Rating) {
		return ErrInvalidInput
	}
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM feedback WHERE email=? AND response_id=?", e.Email, e.ResponseID); err != nil {
		return fmt.Errorf("replace feedback: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO feedback (email, response_id, rating, created_at) VALUES (?,?,?,?)",
		e.Email, e.ResponseID, e.Rating, fmtTime(created)); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// List returns the identity's feedback entries in insertion order.
// An unknown identity yields an empty slice.
func (r *FeedbackRepo) List(ctx context.Context, email string) ([]model.FeedbackEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT email, response_id, rating, created_at FROM feedback WHERE email=? ORDER BY rowid",
		email)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	out := []model.FeedbackEntry{}
	for rows.Next() {
		var e model.FeedbackEntry
		var created string
		if err := rows.Scan(&e.Email, &e.ResponseID, &e.Rating, &created); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Find returns the feedback entry for one response, or ErrNotFound.
func (r *FeedbackRepo) Find(ctx context.Context, email, responseID string) (model.FeedbackEntry, error) {
	var e model.FeedbackEntry
	var created string
	err := r.DB.QueryRowContext(ctx,
		"SELECT email, response_id, rating, created_at FROM feedback WHERE email=? AND response_id=? LIMIT 1",
		email, responseID).Scan(&e.Email, &e.ResponseID, &e.Rating, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.FeedbackEntry{}, ErrNotFound
		}
		return model.FeedbackEntry{}, fmt.Errorf("query feedback: %w", err)
	}
	e.CreatedAt = parseTime(created)
	return e, nil
}

// Counts returns total, positive and negative feedback counts for the
// identity in one pass.
func (r *FeedbackRepo) Counts(ctx context.Context, email string) (total, positive, negative int, err error) {
	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN rating=? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN rating=? THEN 1 ELSE 0 END), 0)
		FROM feedback WHERE email=?`,
		model.RatingPositive, model.RatingNegative, email).Scan(&total, &positive, &negative)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("count feedback: %w", err)
	}
	return total, positive, negative, nil
}
