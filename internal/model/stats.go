package model

// UserStats is the satisfaction summary derived from a user's
// history and feedback. It carries no stored state: the aggregator
// recomputes it from the ledger on every call.
//
// SatisfactionRate is a percentage (0–100); it is defined as 0 when
// the user has no feedback at all.
type UserStats struct {
	TotalChats       int     `json:"total_chats"`
	TotalFeedback    int     `json:"total_feedback"`
	PositiveFeedback int     `json:"positive_feedback"`
	NegativeFeedback int     `json:"negative_feedback"`
	SatisfactionRate float64 `json:"satisfaction_rate"`
}
