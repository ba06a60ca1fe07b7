// Package analytics derives satisfaction metrics from the interaction
// ledger. It keeps no state of its own: every call recomputes from the
// repositories, so results are always consistent with the ledger at
// call time.
package analytics

import (
	"context"
	"fmt"

	"github.com/iliyamo/ai-assistant-api/internal/model"
	"github.com/iliyamo/ai-assistant-api/internal/repository"
)

// Aggregator computes per-user satisfaction summaries.
type Aggregator struct {
	History  *repository.HistoryRepo
	Feedback *repository.FeedbackRepo
}

func NewAggregator(h *repository.HistoryRepo, f *repository.FeedbackRepo) *Aggregator {
	return &Aggregator{History: h, Feedback: f}
}

// Summarize counts the identity's chats and feedback and derives the
// satisfaction rate as positive/total*100. A user without feedback
// gets a rate of 0 rather than a division by zero.
func (a *Aggregator) Summarize(ctx context.Context, email string) (model.UserStats, error) {
	chats, err := a.History.Count(ctx, email)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("count chats: %w", err)
	}
	total, positive, negative, err := a.Feedback.Counts(ctx, email)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("count feedback: %w", err)
	}

	stats := model.UserStats{
		TotalChats:       chats,
		TotalFeedback:    total,
		PositiveFeedback: positive,
		NegativeFeedback: negative,
	}
	if total > 0 {
		stats.SatisfactionRate = float64(positive) / float64(total) * 100
	}
	return stats, nil
}
