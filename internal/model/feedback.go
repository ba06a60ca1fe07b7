package model

import "time"

// Feedback ratings. A feedback entry carries exactly one of these.
const (
	RatingPositive = "positive"
	RatingNegative = "negative"
)

// FeedbackEntry is one polarity judgment on a produced response,
// stored in the `feedback` table. At most one entry exists per
// (email, response_id) pair: resubmitting replaces the prior entry,
// so the stored rating and timestamp always reflect the latest
// submission. Feedback survives independently of the referenced
// history entry; no referential integrity is enforced.
type FeedbackEntry struct {
	Email      string    `json:"email"`
	ResponseID string    `json:"response_id"`
	Rating     string    `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidRating reports whether r is one of the accepted ratings.
func ValidRating(r string) bool {
	return r == RatingPositive || r == RatingNegative
}
