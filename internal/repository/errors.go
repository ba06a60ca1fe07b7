// Package repository implements the persistent stores of the service:
// the credential store (users), the interaction ledger (history and
// feedback) and the session store. This file defines the sentinel
// error values shared across repositories. Higher layers such as
// handlers match on these values to choose an HTTP status; the
// repositories never expose raw driver errors for expected failure
// modes.
package repository

import "errors"

// ErrInvalidInput is returned when a required field is empty or
// malformed. Handlers should translate this into an HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidIdentity is returned when an identity fails the
// email-shape check at registration. HTTP 400.
var ErrInvalidIdentity = errors.New("invalid email address")

// ErrWeakPassword is returned when a password is shorter than the
// minimum length. HTTP 400.
var ErrWeakPassword = errors.New("password too short")

// ErrDuplicateIdentity is returned when registration collides with
// an existing identity. HTTP 409.
var ErrDuplicateIdentity = errors.New("user already exists")

// ErrInvalidCredentials is returned for any authentication failure,
// whether the identity is unknown or the password does not verify.
// The two cases are deliberately indistinguishable so the error
// carries no enumeration signal. HTTP 401.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNotFound is returned for operations addressing an unknown
// identity where existence is not a secret (password change,
// profile lookup). HTTP 404.
var ErrNotFound = errors.New("user not found")
