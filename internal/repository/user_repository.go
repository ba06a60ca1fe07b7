package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/ai-assistant-api/internal/model"
	"github.com/iliyamo/ai-assistant-api/internal/utils"
)

// timeFormat is how timestamps are stored in SQLite text columns.
const timeFormat = time.RFC3339Nano

func fmtTime(t time.Time) string { return t.UTC().Format(timeFormat) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// minPasswordLen is the minimum accepted password length.
const minPasswordLen = 6

// UserRepo is the credential store: it owns the mapping from email
// identity to hashed credential and profile metadata. Iterations is
// the PBKDF2 cost used for every digest it creates.
type UserRepo struct {
	DB         *sql.DB
	Iterations int
}

func NewUserRepo(db *sql.DB, iterations int) *UserRepo {
	return &UserRepo{DB: db, Iterations: iterations}
}

// validIdentity applies the email-shape check: the identity must
// contain both "@" and ".". Nothing stronger is enforced.
func validIdentity(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// Register validates the input, hashes the password with a fresh salt
// and inserts the user. The identity collision check is the table's
// primary key, not a read-before-write, so two concurrent Register
// calls for the same email cannot both succeed.
func (r *UserRepo) Register(ctx context.Context, email, name, password string) error {
	if email == "" || name == "" || password == "" {
		return ErrInvalidInput
	}
	if !validIdentity(email) {
		return ErrInvalidIdentity
	}
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}

	digest, err := utils.HashPassword(password, r.Iterations)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := fmtTime(time.Now())
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_digest, created_at, last_login) VALUES (?,?,?,?,?)",
		email, name, digest, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Authenticate verifies the credentials and bumps last_login. Unknown
// identity and wrong password both come back as ErrInvalidCredentials
// so callers cannot probe which emails are registered.
func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (model.Profile, error) {
	if email == "" || password == "" {
		return model.Profile{}, ErrInvalidCredentials
	}

	u, err := r.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, ErrInvalidCredentials
		}
		return model.Profile{}, fmt.Errorf("query user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordDigest, password, r.Iterations) {
		return model.Profile{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login=? WHERE email=?", fmtTime(now), email); err != nil {
		return model.Profile{}, fmt.Errorf("update last_login: %w", err)
	}
	u.LastLogin = now
	return u.Profile(), nil
}

// ChangePassword verifies the current password and replaces the digest
// with a freshly salted one.
func (r *UserRepo) ChangePassword(ctx context.Context, email, current, next string) error {
	u, err := r.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("query user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordDigest, current, r.Iterations) {
		return ErrInvalidCredentials
	}
	if len(next) < minPasswordLen {
		return ErrWeakPassword
	}

	digest, err := utils.HashPassword(next, r.Iterations)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_digest=? WHERE email=?", digest, email); err != nil {
		return fmt.Errorf("update digest: %w", err)
	}
	return nil
}

// GetProfile returns the digest-free view of one user, or ErrNotFound.
func (r *UserRepo) GetProfile(ctx context.Context, email string) (model.Profile, error) {
	u, err := r.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("query user: %w", err)
	}
	return u.Profile(), nil
}

// ListProfiles returns every registered profile, digests stripped,
// ordered by registration time.
func (r *UserRepo) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT email, name, created_at, last_login FROM users ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := []model.Profile{}
	for rows.Next() {
		var p model.Profile
		var created, lastLogin string
		if err := rows.Scan(&p.Email, &p.Name, &created, &lastLogin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		p.CreatedAt = parseTime(created)
		p.LastLogin = parseTime(lastLogin)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes the user and cascades to every row that identity
// owns: history, feedback and sessions go in the same transaction, so
// a crash mid-delete can never leave orphaned ledger entries behind.
// Returns false when the identity does not exist.
func (r *UserRepo) Delete(ctx context.Context, email string) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE email=?", email)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for _, table := range []string{"history", "feedback", "sessions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE email=?", email); err != nil {
			return false, fmt.Errorf("cascade delete %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete: %w", err)
	}
	return true, nil
}

// getByEmail fetches the full user row including the digest. It stays
// unexported: only verification paths inside this repo may see digests.
func (r *UserRepo) getByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	var created, lastLogin string
	err := r.DB.QueryRowContext(ctx,
		"SELECT email, name, password_digest, created_at, last_login FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.Email, &u.Name, &u.PasswordDigest, &created, &lastLogin)
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = parseTime(created)
	u.LastLogin = parseTime(lastLogin)
	return u, nil
}
