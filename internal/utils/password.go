package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// saltSize is the number of random bytes generated per digest.
const saltSize = 16

// keySize is the PBKDF2 output length in bytes.
const keySize = 32

// HashPassword derives a salted digest for the given password using
// PBKDF2-SHA256 with the given iteration count. Every call draws a
// fresh random salt, so hashing the same password twice never yields
// the same digest. The result is stored as "salt$digest" with both
// parts hex-encoded.
func HashPassword(plain string, iterations int) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, keySize, sha256.New)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

// VerifyPassword checks a plain password against a stored
// "salt$digest" value. It is a pure function of its inputs: a
// malformed stored digest simply fails verification instead of
// returning an error, and the digest comparison is constant-time.
func VerifyPassword(stored, plain string, iterations int) bool {
	saltHex, digestHex, ok := strings.Cut(stored, "$")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil || len(digest) == 0 {
		return false
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, len(digest), sha256.New)
	return subtle.ConstantTimeCompare(key, digest) == 1
}
