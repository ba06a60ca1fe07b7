// Package queue defines message payloads exchanged over the message broker.
package queue

// ExchangeCompletedEvent is published after a chat exchange has been
// durably recorded in the ledger. It carries enough information for
// downstream consumers to log or trigger analytics without querying
// the primary database. The events are advisory: the ledger write has
// already committed by the time one is published.
type ExchangeCompletedEvent struct {
    Email       string `json:"email"`
    ResponseID  string `json:"response_id"`
    Model       string `json:"model"`
    InputType   string `json:"input_type"`
    Attachments int    `json:"attachments"`
    CompletedAt string `json:"completed_at"`
}
