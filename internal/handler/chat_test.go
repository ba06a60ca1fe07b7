package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelsEndpoint(t *testing.T) {
	h := newChatHandler(t)

	c, rec := authedCtx(http.MethodGet, "/v1/models", "", "a@x.com")
	require.NoError(t, h.Models(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	models, ok := body["models"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, models)
	first, ok := models[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo-local", first["name"])
}

func TestChatEndpoint(t *testing.T) {
	h := newChatHandler(t)

	c, rec := authedCtx(http.MethodPost, "/v1/chat", `{"text":"hello there"}`, "a@x.com")
	require.NoError(t, h.Chat(c))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	resp, ok := body["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo-local", resp["model"], "model defaults to the local demo")
	assert.NotEmpty(t, resp["response_id"])
	assert.NotEmpty(t, resp["content"])

	// The exchange must be durable in the ledger.
	c, rec = authedCtx(http.MethodGet, "/v1/history", "", "a@x.com")
	require.NoError(t, h.ListHistory(c))
	body = decodeBody(t, rec)
	history, ok := body["history"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 1)
}

func TestChatEndpointStatuses(t *testing.T) {
	h := newChatHandler(t)

	tests := []struct {
		name  string
		email string
		body  string
		code  int
	}{
		{"unauthorized", "", `{"text":"hi"}`, http.StatusUnauthorized},
		{"empty input", "a@x.com", `{}`, http.StatusBadRequest},
		{"unknown model", "a@x.com", `{"model":"nope","text":"hi"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := jsonCtx(http.MethodPost, "/v1/chat", tt.body)
			if tt.email != "" {
				c.Set("email", tt.email)
			}
			require.NoError(t, h.Chat(c))
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func uploadCtx(t *testing.T, filename, content string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/files", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("email", "a@x.com")
	return c, rec
}

func TestUploadFileEndpoint(t *testing.T) {
	h := newChatHandler(t)

	c, rec := uploadCtx(t, "people.csv", "name,age\nann,30\n")
	require.NoError(t, h.UploadFile(c))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	file, ok := body["file"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "people.csv", file["filename"])
	assert.Equal(t, "spreadsheet", file["kind"])
}

func TestUploadFileEndpointRejects(t *testing.T) {
	h := newChatHandler(t)

	c, rec := uploadCtx(t, "archive.zip", "binary junk")
	require.NoError(t, h.UploadFile(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = authedCtx(http.MethodPost, "/v1/files", "", "a@x.com")
	require.NoError(t, h.UploadFile(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing multipart file")
}

func TestListHistoryLimit(t *testing.T) {
	h := newChatHandler(t)

	for i := 0; i < 3; i++ {
		c, rec := authedCtx(http.MethodPost, "/v1/chat",
			fmt.Sprintf(`{"text":"message %d"}`, i), "a@x.com")
		require.NoError(t, h.Chat(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	c, rec := authedCtx(http.MethodGet, "/v1/history?limit=2", "", "a@x.com")
	require.NoError(t, h.ListHistory(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	history, ok := body["history"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 2)

	c, rec = authedCtx(http.MethodGet, "/v1/history?limit=abc", "", "a@x.com")
	require.NoError(t, h.ListHistory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackEndpoints(t *testing.T) {
	h := newChatHandler(t)

	// Chat once so there is a real response to rate.
	c, rec := authedCtx(http.MethodPost, "/v1/chat", `{"text":"hi"}`, "a@x.com")
	require.NoError(t, h.Chat(c))
	require.Equal(t, http.StatusOK, rec.Code)
	responseID := decodeBody(t, rec)["response"].(map[string]any)["response_id"].(string)

	c, rec = authedCtx(http.MethodPost, "/v1/feedback",
		fmt.Sprintf(`{"response_id":%q,"rating":"positive"}`, responseID), "a@x.com")
	require.NoError(t, h.SubmitFeedback(c))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Resubmission flips the stored rating, still one entry.
	c, rec = authedCtx(http.MethodPost, "/v1/feedback",
		fmt.Sprintf(`{"response_id":%q,"rating":"negative"}`, responseID), "a@x.com")
	require.NoError(t, h.SubmitFeedback(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = authedCtx(http.MethodGet, "/v1/feedback", "", "a@x.com")
	require.NoError(t, h.ListFeedback(c))
	body := decodeBody(t, rec)
	entries, ok := body["feedback"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "negative", entries[0].(map[string]any)["rating"])

	c, rec = authedCtx(http.MethodPost, "/v1/feedback",
		`{"response_id":"r1","rating":"meh"}`, "a@x.com")
	require.NoError(t, h.SubmitFeedback(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStatsEndpoint(t *testing.T) {
	h := newChatHandler(t)

	c, rec := authedCtx(http.MethodPost, "/v1/chat", `{"text":"hi"}`, "a@x.com")
	require.NoError(t, h.Chat(c))
	require.Equal(t, http.StatusOK, rec.Code)
	responseID := decodeBody(t, rec)["response"].(map[string]any)["response_id"].(string)

	c, rec = authedCtx(http.MethodPost, "/v1/feedback",
		fmt.Sprintf(`{"response_id":%q,"rating":"positive"}`, responseID), "a@x.com")
	require.NoError(t, h.SubmitFeedback(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = authedCtx(http.MethodGet, "/v1/stats", "", "a@x.com")
	require.NoError(t, h.GetStats(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	stats, ok := decodeBody(t, rec)["stats"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, stats["total_chats"])
	assert.EqualValues(t, 1, stats["total_feedback"])
	assert.EqualValues(t, 100, stats["satisfaction_rate"])
}
