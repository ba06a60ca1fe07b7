package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for session tokens
    "encoding/hex"  // hex encoding functions
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string. Exp stores the expiration
// timestamp as a time.Time. Access tokens are short-lived and encoded
// in the Authorization header when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// SessionToken represents the opaque token handed out at login. The Raw
// field contains the raw token string returned to the client. The Exp
// field records when it expires. In the database only a SHA-256 hash of
// the raw string is stored, so a stolen sessions table cannot be used to
// impersonate anyone.
type SessionToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. It takes the
// signing secret, the user's email (our identity key), the display name,
// and a TTL in minutes. The JWT includes standard claims: subject (sub),
// name, expiration (exp) and issued at (iat).
func NewAccessToken(secret, email, name string, ttlMin int) (AccessToken, error) {
    // Expiration is the current UTC time plus the TTL.
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    // MapClaims allows arbitrary key/value pairs. sub carries the email
    // identity; handlers downstream read it back from the context.
    claims := jwt.MapClaims{
        "sub":  email,
        "name": name,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewSessionToken returns a cryptographically secure random opaque token
// and its expiration time. 32 random bytes give 256 bits of entropy,
// comfortably above what a version-4 UUID would carry. The ttlHours
// parameter controls how many hours the session is valid.
func NewSessionToken(ttlHours int) (SessionToken, error) {
    raw, err := randomHex(32) // 32 bytes -> 64 hex chars
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour),
    }, nil
}

// HashSessionRaw returns the SHA-256 hash of the raw session token as a
// hex string. Only the hash is persisted.
func HashSessionRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
