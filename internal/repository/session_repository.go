package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRepo persists/validates opaque session tokens (single
// 'token_hash' column). It is the server-side half of the session
// issuer: possession of a live token proves a past login.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Store inserts a session token hash row bound to the identity.
func (r *SessionRepo) Store(ctx context.Context, email, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (email, token_hash, expires_at, created_at) VALUES (?,?,?,?)",
		email, tokenHash, fmtTime(exp), fmtTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Validate returns the bound identity if a non-revoked, non-expired
// session exists for the hash.
func (r *SessionRepo) Validate(ctx context.Context, tokenHash string) (string, error) {
	var (
		email     string
		expiresAt string
		revokedAt sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT email, expires_at, revoked_at FROM sessions WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&email, &expiresAt, &revokedAt)
	if err != nil {
		return "", err
	}
	if revokedAt.Valid {
		return "", sql.ErrNoRows
	}
	if time.Now().UTC().After(parseTime(expiresAt)) {
		return "", sql.ErrNoRows
	}
	return email, nil
}

// RevokeByHash marks one session as revoked.
func (r *SessionRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=? WHERE token_hash=? AND revoked_at IS NULL",
		fmtTime(time.Now()), tokenHash)
	return err
}

// RevokeAllFor revokes every active session for the identity.
func (r *SessionRepo) RevokeAllFor(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=? WHERE email=? AND revoked_at IS NULL",
		fmtTime(time.Now()), email)
	return err
}
