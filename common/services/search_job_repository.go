package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lendingdesk/court-search-service/common"
	"github.com/lendingdesk/court-search-service/common/db"
	"github.com/lendingdesk/court-search-service/common/models"
)

// SearchJobRepository persists search jobs for durable history. The
// Redis job store answers polling; this table answers "what searches
// ran last month".
type SearchJobRepository struct {
	db *db.DB
}

// NewSearchJobRepository creates a repository backed by the given DB.
func NewSearchJobRepository(db *db.DB) *SearchJobRepository {
	return &SearchJobRepository{db: db}
}

// Create inserts a new job in running state.
func (r *SearchJobRepository) Create(ctx context.Context, jobID string, criteria any) error {
	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Errorf("marshaling criteria: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO search_jobs (job_id, status, criteria, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())`,
		jobID, models.JobStatusRunning, criteriaJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting search job: %w", err)
	}
	return nil
}

// Complete stores the final result and marks the job complete.
func (r *SearchJobRepository) Complete(ctx context.Context, jobID string, result any) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		UPDATE search_jobs
		SET status = $2, result = $3, updated_at = now()
		WHERE job_id = $1`,
		jobID, models.JobStatusComplete, resultJSON,
	)
	if err != nil {
		return fmt.Errorf("completing search job: %w", err)
	}
	return nil
}

// Fail marks the job as errored with the failure reason.
func (r *SearchJobRepository) Fail(ctx context.Context, jobID string, cause string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE search_jobs
		SET status = $2, error = $3, updated_at = now()
		WHERE job_id = $1`,
		jobID, models.JobStatusError, cause,
	)
	if err != nil {
		return fmt.Errorf("failing search job: %w", err)
	}
	return nil
}

// Get fetches one job by id.
func (r *SearchJobRepository) Get(ctx context.Context, jobID string) (models.SearchJob, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT job_id, status, message, criteria, result, error, created_at, updated_at
		FROM search_jobs
		WHERE job_id = $1`,
		jobID,
	)
	var job models.SearchJob
	err := row.Scan(&job.JobID, &job.Status, &job.Message, &job.Criteria, &job.Result, &job.Error, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.SearchJob{}, fmt.Errorf("search job %s: %w", jobID, common.ErrJobNotFound)
	}
	if err != nil {
		return models.SearchJob{}, fmt.Errorf("fetching search job: %w", err)
	}
	return job, nil
}

// List returns jobs newest first along with the total count for
// pagination.
func (r *SearchJobRepository) List(ctx context.Context, limit, offset int) ([]models.SearchJob, int64, error) {
	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM search_jobs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting search jobs: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT job_id, status, message, criteria, result, error, created_at, updated_at
		FROM search_jobs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing search jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.SearchJob
	for rows.Next() {
		var job models.SearchJob
		if err := rows.Scan(&job.JobID, &job.Status, &job.Message, &job.Criteria, &job.Result, &job.Error, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning search job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, total, rows.Err()
}
