package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ai-assistant-api/internal/analytics"
	"github.com/iliyamo/ai-assistant-api/internal/assistant"
	"github.com/iliyamo/ai-assistant-api/internal/files"
	"github.com/iliyamo/ai-assistant-api/internal/model"
	"github.com/iliyamo/ai-assistant-api/internal/queue"
	"github.com/iliyamo/ai-assistant-api/internal/repository"
	queue_publisher "github.com/iliyamo/ai-assistant-api/internal/service"
)

// maxUploadBytes caps how much of an uploaded file is read for
// metadata extraction.
const maxUploadBytes = 10 << 20 // 10 MB

// ChatHandler bundles the model manager, the interaction ledger and
// the analytics aggregator behind the chat endpoints.
type ChatHandler struct {
	Assistant *assistant.Manager
	History   *repository.HistoryRepo
	Feedback  *repository.FeedbackRepo
	Stats     *analytics.Aggregator
	// PublishEvents controls whether completed exchanges are announced
	// on the message broker.
	PublishEvents bool
}

func NewChatHandler(m *assistant.Manager, h *repository.HistoryRepo, f *repository.FeedbackRepo, s *analytics.Aggregator, publish bool) *ChatHandler {
	return &ChatHandler{Assistant: m, History: h, Feedback: f, Stats: s, PublishEvents: publish}
}

// ----- DTOs -----

type chatReq struct {
	Model       string                 `json:"model"`
	Text        string                 `json:"text"`
	OutputMode  string                 `json:"output_mode"`
	Attachments []model.FileDescriptor `json:"attachments"`
}

type feedbackReq struct {
	ResponseID string `json:"response_id"`
	Rating     string `json:"rating"`
}

// Models returns the model registry for the picker UI.
func (h *ChatHandler) Models(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"models": h.Assistant.Models()})
}

// UploadFile accepts one multipart file and returns its descriptor.
// The descriptor is the client's to attach to a later chat request;
// nothing is persisted here.
func (h *ChatHandler) UploadFile(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}

	desc, err := files.Describe(fh.Filename, fh.Size, content)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"file": desc})
}

// Chat runs one exchange: the model manager fabricates a response,
// the ledger records it, and the result goes back to the client. The
// history write is the step that must succeed — a response that was
// produced but not recorded would be invisible to later feedback.
func (h *ChatHandler) Chat(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Text == "" && len(req.Attachments) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text or attachments required"})
	}
	if req.Model == "" {
		req.Model = "demo-local"
	}

	input := model.InputPayload{Text: req.Text, Attachments: req.Attachments}
	result, err := h.Assistant.Generate(req.Model, input, req.OutputMode)
	if err != nil {
		if errors.Is(err, assistant.ErrUnknownModel) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate failed"})
	}

	entry := model.HistoryEntry{
		Email:      email,
		CreatedAt:  result.CreatedAt,
		ModelName:  result.ModelName,
		Input:      input,
		Output:     result.Content,
		ResponseID: result.ResponseID,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.History.Append(ctx, entry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record exchange failed"})
	}

	if h.PublishEvents {
		ev := queue.ExchangeCompletedEvent{
			Email:       email,
			ResponseID:  result.ResponseID,
			Model:       result.Model,
			InputType:   result.InputType,
			Attachments: len(req.Attachments),
			CompletedAt: result.CreatedAt.Format(time.RFC3339),
		}
		// Best effort: the exchange is already durable.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = queue_publisher.PublishExchangeCompleted(ctx, ev)
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{"response": result})
}

// ListHistory returns the user's history oldest-first; ?limit=N
// restricts the view to the N most recent entries.
func (h *ChatHandler) ListHistory(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var (
		entries []model.HistoryEntry
		err     error
	)
	if raw := c.QueryParam("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		entries, err = h.History.ListRecent(ctx, email, n)
	} else {
		entries, err = h.History.List(ctx, email)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load history failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"history": entries})
}

// SubmitFeedback records a polarity judgment on one response. A
// resubmission for the same response replaces the earlier one.
func (h *ChatHandler) SubmitFeedback(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entry := model.FeedbackEntry{
		Email:      email,
		ResponseID: req.ResponseID,
		Rating:     req.Rating,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Feedback.Upsert(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "response_id and a positive/negative rating required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save feedback failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"feedback": entry})
}

// ListFeedback returns the user's feedback entries.
func (h *ChatHandler) ListFeedback(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entries, err := h.Feedback.List(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load feedback failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"feedback": entries})
}

// GetStats returns the satisfaction summary for the user.
func (h *ChatHandler) GetStats(c echo.Context) error {
	email := currentEmail(c)
	if email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	stats, err := h.Stats.Summarize(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute stats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}
