// Package jobstore tracks asynchronous search jobs in Redis. The HTTP
// layer polls it; the durable history lives in Postgres.
package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lendingdesk/court-search-service/common"
	"github.com/lendingdesk/court-search-service/common/models"
	"github.com/lendingdesk/court-search-service/common/redis"
)

const (
	keyPrefix = "search:job:"

	// jobTTL bounds how long finished jobs stay pollable.
	jobTTL = 24 * time.Hour
)

// Job is the Redis-side record of one search.
type Job struct {
	JobID     string          `json:"job_id"`
	Status    string          `json:"status"`
	Message   string          `json:"message,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store reads and writes job records.
type Store struct {
	redis *redis.RedisClient
}

// NewStore creates a Store on the shared Redis client.
func NewStore(redis *redis.RedisClient) *Store {
	return &Store{redis: redis}
}

// Create registers a new running job.
func (s *Store) Create(ctx context.Context, jobID string) error {
	now := time.Now().UTC()
	return s.save(ctx, Job{
		JobID:     jobID,
		Status:    models.JobStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// SetMessage updates the progress message of a running job.
func (s *Store) SetMessage(ctx context.Context, jobID, message string) error {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	job.Message = message
	job.UpdatedAt = time.Now().UTC()
	return s.save(ctx, job)
}

// Complete stores the search result and marks the job complete.
func (s *Store) Complete(ctx context.Context, jobID string, result any) error {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling job result: %w", err)
	}
	job.Status = models.JobStatusComplete
	job.Result = resultJSON
	job.Message = ""
	job.UpdatedAt = time.Now().UTC()
	return s.save(ctx, job)
}

// Fail marks the job as errored.
func (s *Store) Fail(ctx context.Context, jobID, cause string) error {
	job, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	job.Status = models.JobStatusError
	job.Error = cause
	job.UpdatedAt = time.Now().UTC()
	return s.save(ctx, job)
}

// Get fetches one job. Unknown ids map to common.ErrJobNotFound.
func (s *Store) Get(ctx context.Context, jobID string) (Job, error) {
	raw, err := s.redis.Get(ctx, keyPrefix+jobID)
	if errors.Is(err, goredis.Nil) {
		return Job{}, common.ErrJobNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("fetching job %s: %w", jobID, err)
	}
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{}, fmt.Errorf("decoding job %s: %w", jobID, err)
	}
	return job, nil
}

func (s *Store) save(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding job %s: %w", job.JobID, err)
	}
	if err := s.redis.Set(ctx, keyPrefix+job.JobID, payload, jobTTL); err != nil {
		return fmt.Errorf("storing job %s: %w", job.JobID, err)
	}
	return nil
}
