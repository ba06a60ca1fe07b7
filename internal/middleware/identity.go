package middleware

// identity.go defines helper functions shared across middleware files.
// It provides the identity extraction used by the rate limiter and the
// response cache to build per-user keys. When no user is authenticated,
// "guest" is returned so unauthenticated traffic shares one bucket.

import (
    "github.com/labstack/echo/v4"
)

// identityKey returns the authenticated email identity from the context,
// as set by JWTAuth, or "guest" when the request is unauthenticated.
func identityKey(c echo.Context) string {
    if v := c.Get("email"); v != nil {
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    return "guest"
}
