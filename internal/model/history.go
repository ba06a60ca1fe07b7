package model

import (
	"encoding/json"
	"time"
)

// FileDescriptor summarizes an uploaded file attached to a chat
// input. It is produced by the file-processing collaborator and
// stored inside the history entry as-is; the ledger never inspects
// the Metadata shape.
//
// Fields:
//  Filename  – original name of the uploaded file.
//  Kind      – coarse classification (image, document, spreadsheet, code).
//  SizeBytes – size of the uploaded content.
//  Metadata  – derived details (dimensions, row counts, ...), opaque here.
type FileDescriptor struct {
	Filename  string          `json:"filename"`
	Kind      string          `json:"kind"`
	SizeBytes int64           `json:"size_bytes"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// InputPayload is the user-supplied half of one exchange: free text
// plus zero or more file descriptors.
type InputPayload struct {
	Text        string           `json:"text"`
	Attachments []FileDescriptor `json:"attachments,omitempty"`
}

// HistoryEntry is one durable record of a completed exchange in the
// `history` table. Entries are append-only: they are never mutated
// or deleted except when the owning account is deleted. Insertion
// order (rowid) is the canonical order.
//
// Fields:
//  Email      – owning identity.
//  CreatedAt  – when the exchange completed.
//  ModelName  – display name of the model that produced the output.
//  Input      – the input payload (text and optional attachments).
//  Output     – produced output text.
//  ResponseID – system-wide unique identifier of the produced output,
//               referenced by feedback entries.
type HistoryEntry struct {
	Email      string       `json:"email"`
	CreatedAt  time.Time    `json:"created_at"`
	ModelName  string       `json:"model_name"`
	Input      InputPayload `json:"input"`
	Output     string       `json:"output"`
	ResponseID string       `json:"response_id"`
}
