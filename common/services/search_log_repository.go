package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lendingdesk/court-search-service/common/db"
	"github.com/lendingdesk/court-search-service/common/models"
)

// SearchLogRepository stores structured service log lines in the
// search_logs table.
type SearchLogRepository struct {
	db *db.DB
}

// NewSearchLogRepository creates a repository backed by the given DB.
func NewSearchLogRepository(db *db.DB) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

// CreateSearchLogParams are the columns of one log row.
type CreateSearchLogParams struct {
	ID        string
	JobID     pgtype.Text
	EventType string
	Message   pgtype.Text
	Details   json.RawMessage
	CreatedAt time.Time
}

// Create inserts one log row.
func (r *SearchLogRepository) Create(ctx context.Context, params CreateSearchLogParams) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO search_logs (id, job_id, event_type, message, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		params.ID, params.JobID, params.EventType, params.Message, params.Details, params.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting search log: %w", err)
	}
	return nil
}

// ListByJob returns the log lines for one job, oldest first.
func (r *SearchLogRepository) ListByJob(ctx context.Context, jobID string, limit, offset int) ([]models.SearchLogResponse, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, job_id, event_type, message, details, created_at
		FROM search_logs
		WHERE job_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`,
		jobID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing search logs: %w", err)
	}
	defer rows.Close()

	var logs []models.SearchLogResponse
	for rows.Next() {
		var (
			entry   models.SearchLogResponse
			details json.RawMessage
		)
		if err := rows.Scan(&entry.ID, &entry.JobID, &entry.EventType, &entry.Message, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning search log: %w", err)
		}
		if len(details) > 0 {
			var decoded interface{}
			if err := json.Unmarshal(details, &decoded); err == nil {
				entry.Details = decoded
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
