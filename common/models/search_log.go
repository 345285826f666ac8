package models

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Job lifecycle statuses. A job moves running -> complete | error.
const (
	JobStatusRunning  = "running"
	JobStatusComplete = "complete"
	JobStatusError    = "error"
)

// SearchJob is one asynchronous search, persisted for history and
// mirrored in Redis for fast status polling.
type SearchJob struct {
	JobID     string          `json:"job_id"`
	Status    string          `json:"status"`
	Message   pgtype.Text     `json:"message"`
	Criteria  json.RawMessage `json:"criteria"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     pgtype.Text     `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SearchLogResponse is one structured service log line tied to a
// search job.
type SearchLogResponse struct {
	ID        string      `json:"id"`
	JobID     pgtype.Text `json:"job_id"`
	EventType string      `json:"event_type"`
	Message   pgtype.Text `json:"message"`
	Details   interface{} `json:"details"`
	CreatedAt time.Time   `json:"created_at"`
}

// JobStatusResponse is the polling payload for a running job.
type JobStatusResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
