package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ai-assistant-api/internal/utils"
)

const testSecret = "test-secret"

func protectedEcho(secret string) *echo.Echo {
	e := echo.New()
	e.GET("/v1/me", func(c echo.Context) error {
		return c.String(http.StatusOK, identityKey(c))
	}, JWTAuth(secret))
	return e
}

func TestJWTAuthInjectsIdentity(t *testing.T) {
	e := protectedEcho(testSecret)

	access, err := utils.NewAccessToken(testSecret, "a@x.com", "Ann", 15)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+access.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", rec.Body.String())
}

func TestJWTAuthRejects(t *testing.T) {
	e := protectedEcho(testSecret)

	otherSecret, err := utils.NewAccessToken("other-secret", "a@x.com", "Ann", 15)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + otherSecret.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestIdentityKeyGuestFallback(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "guest", identityKey(c))
	c.Set("email", "a@x.com")
	assert.Equal(t, "a@x.com", identityKey(c))
}
