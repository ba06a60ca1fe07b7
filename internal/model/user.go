package model

import "time"

// User represents an application user record as stored in the
// `users` table. The email address is the primary key: it is
// case-sensitive, immutable once created, and every other piece
// of per-user data (history, feedback, sessions) hangs off it.
//
// Fields:
//  Email          – unique identity key (email-shaped, not otherwise validated).
//  Name           – display name shown in the UI.
//  PasswordDigest – salted digest in `salt$digest` form; never exposed to callers.
//  CreatedAt      – timestamp of registration.
//  LastLogin      – timestamp of the most recent successful login.
type User struct {
	Email          string    // users.email
	Name           string    // users.name
	PasswordDigest string    // users.password_digest
	CreatedAt      time.Time // users.created_at
	LastLogin      time.Time // users.last_login
}

// Profile is the user record with the credential digest stripped.
// Every read path that leaves the repository layer returns a
// Profile, never a User, so the digest cannot leak into responses.
type Profile struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// Profile derives the safe view of a user record.
func (u User) Profile() Profile {
	return Profile{
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// Session models an entry in the `sessions` table. Each session
// token belongs to a user and carries expiry and revocation
// metadata. The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – owner of the session.
//  TokenHash – SHA-256 hex digest of the opaque token value.
//  ExpiresAt – expiration timestamp of the session.
//  RevokedAt – when the session was revoked (nil if still active).
//  CreatedAt – timestamp of issuance.
type Session struct {
	ID        uint64     // sessions.id
	Email     string     // sessions.email
	TokenHash string     // sessions.token_hash
	ExpiresAt time.Time  // sessions.expires_at
	RevokedAt *time.Time // sessions.revoked_at (nullable)
	CreatedAt time.Time  // sessions.created_at
}
