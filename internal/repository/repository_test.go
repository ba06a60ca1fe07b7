package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/iliyamo/ai-assistant-api/internal/database"
	"github.com/iliyamo/ai-assistant-api/internal/model"
	"github.com/stretchr/testify/require"
)

// testIterations keeps digest derivation fast in tests.
const testIterations = 1000

// newTestDB opens a fresh SQLite file in a temp dir and applies the
// schema. The file is removed with the test's temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// registerTestUser creates a user the surrounding test can work with.
func registerTestUser(t *testing.T, users *UserRepo, email string) {
	t.Helper()
	require.NoError(t, users.Register(context.Background(), email, "Test User", "secret1"))
}

func historyEntry(email, responseID string) model.HistoryEntry {
	return model.HistoryEntry{
		Email:      email,
		ModelName:  "demo-local",
		Input:      model.InputPayload{Text: "hello"},
		Output:     "response body",
		ResponseID: responseID,
	}
}

func feedbackEntry(email, responseID, rating string) model.FeedbackEntry {
	return model.FeedbackEntry{Email: email, ResponseID: responseID, Rating: rating}
}
