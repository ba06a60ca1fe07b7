package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ai-assistant-api/internal/analytics"
	"github.com/iliyamo/ai-assistant-api/internal/assistant"
	"github.com/iliyamo/ai-assistant-api/internal/config"
	"github.com/iliyamo/ai-assistant-api/internal/database"
	"github.com/iliyamo/ai-assistant-api/internal/repository"
)

// testCfg keeps token issuing and hashing fast in tests.
var testCfg = config.Config{
	Env:             "test",
	Port:            "0",
	JWTSecret:       "test-secret",
	AccessTTLMin:    15,
	SessionTTLHours: 24,
	HashIterations:  1000,
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	db := newTestDB(t)
	return NewAuthHandler(testCfg,
		repository.NewUserRepo(db, testCfg.HashIterations),
		repository.NewSessionRepo(db))
}

func newChatHandler(t *testing.T) *ChatHandler {
	t.Helper()
	db := newTestDB(t)
	history := repository.NewHistoryRepo(db)
	feedback := repository.NewFeedbackRepo(db)
	return NewChatHandler(assistant.NewManager(), history, feedback,
		analytics.NewAggregator(history, feedback), false)
}

// jsonCtx builds an echo context carrying a JSON body, plus the
// recorder that captures the response.
func jsonCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authedCtx is jsonCtx with the identity the JWT middleware would set.
func authedCtx(method, target, body, email string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := jsonCtx(method, target, body)
	c.Set("email", email)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
