package jurisdictions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lendingdesk/court-search-service/common/courts"
	"github.com/lendingdesk/court-search-service/common/db"
	"github.com/lendingdesk/court-search-service/common/jobstore"
	"github.com/lendingdesk/court-search-service/common/logger"
	"github.com/lendingdesk/court-search-service/common/messaging"
	"github.com/lendingdesk/court-search-service/common/services"
	"github.com/lendingdesk/court-search-service/common/storage"
	"github.com/lendingdesk/court-search-service/common/work"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// SearchConsumer drains search.run messages from JetStream and runs
// each job on the worker pool.
type SearchConsumer struct {
	db         *db.DB
	broker     *messaging.NatsBroker
	registry   *Registry
	jobs       *jobstore.Store
	jobRepo    *services.SearchJobRepository
	logService *logger.LogService
	archiver   *storage.EvidenceArchiver
	pool       *work.Pool[struct{}]
	consumeCtx jetstream.ConsumeContext
}

// NewSearchConsumer wires the consumer's dependencies. The archiver is
// optional, without it snapshots are simply not kept.
func NewSearchConsumer(db *db.DB, broker *messaging.NatsBroker, registry *Registry, archiver *storage.EvidenceArchiver) (*SearchConsumer, error) {
	pool, err := work.NewWorkerPoolWithConfig[struct{}](work.DefaultPoolConfig())
	if err != nil {
		return nil, err
	}

	return &SearchConsumer{
		db:         db,
		broker:     broker,
		registry:   registry,
		jobs:       jobstore.NewStore(db.Redis),
		jobRepo:    services.NewSearchJobRepository(db),
		logService: logger.NewLogService(db),
		archiver:   archiver,
		pool:       pool,
	}, nil
}

// Start creates the durable consumer and begins processing. It returns
// once consumption is running, work happens on the pool.
func (c *SearchConsumer) Start(ctx context.Context) error {
	consumer, err := messaging.SearchRunConsumer(c.broker)
	if err != nil {
		return fmt.Errorf("creating search consumer: %w", err)
	}

	c.pool.Start(ctx, "search-jobs")
	go c.drainResults()

	consumeCtx, err := c.broker.Consume(ctx, consumer, func(msg jetstream.Msg) {
		c.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("consuming search messages: %w", err)
	}
	c.consumeCtx = consumeCtx

	log.Info().Str("subject", messaging.SubjectSearchRun).Msg("Search consumer started")
	return nil
}

// Stop halts consumption and drains the pool.
func (c *SearchConsumer) Stop() {
	if c.consumeCtx != nil {
		c.consumeCtx.Stop()
	}
	c.pool.Stop()
}

func (c *SearchConsumer) handleMessage(ctx context.Context, msg jetstream.Msg) {
	var req messaging.SearchRunMessage
	if err := json.Unmarshal(msg.Data(), &req); err != nil {
		log.Error().Err(err).Msg("Discarding malformed search message")
		if termErr := msg.Term(); termErr != nil {
			log.Error().Err(termErr).Msg("Failed to terminate malformed message")
		}
		return
	}

	task := work.MustSimpleTask(
		func(taskCtx context.Context) error {
			return c.runJob(taskCtx, req)
		},
		work.WithID[struct{}](req.JobID),
	)

	if err := c.pool.AddTask(ctx, task); err != nil {
		log.Error().Err(err).Str("job_id", req.JobID).Msg("Failed to queue search job")
		if nakErr := msg.Nak(); nakErr != nil {
			log.Error().Err(nakErr).Msg("Failed to NAK search message")
		}
		return
	}

	if err := msg.Ack(); err != nil {
		log.Error().Err(err).Str("job_id", req.JobID).Msg("Failed to ACK search message")
	}
}

// runJob executes one search end to end and records the outcome in
// both Redis and the job history.
func (c *SearchConsumer) runJob(ctx context.Context, req messaging.SearchRunMessage) error {
	jobID := req.JobID

	if err := c.jobs.SetMessage(ctx, jobID, "searching court records"); err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("Failed to update job message")
	}
	if err := c.logService.SearchStart(ctx, jobID, req.Criteria.FullName()); err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("Failed to record search start")
	}

	response, diagnostics, err := c.registry.Orchestrator.Search(ctx, req.Criteria)

	c.archiveSnapshots(ctx, jobID, diagnostics)

	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Search job failed")
		if failErr := c.jobs.Fail(ctx, jobID, err.Error()); failErr != nil {
			log.Error().Err(failErr).Str("job_id", jobID).Msg("Failed to mark job failed in Redis")
		}
		if failErr := c.jobRepo.Fail(ctx, jobID, err.Error()); failErr != nil {
			log.Error().Err(failErr).Str("job_id", jobID).Msg("Failed to mark job failed in history")
		}
		if logErr := c.logService.SearchError(ctx, jobID, "search failed", err); logErr != nil {
			log.Warn().Err(logErr).Str("job_id", jobID).Msg("Failed to record search error")
		}
		return err
	}

	if err := c.jobs.Complete(ctx, jobID, response); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to complete job in Redis")
	}
	if err := c.jobRepo.Complete(ctx, jobID, response); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("Failed to complete job in history")
	}
	if err := c.logService.SearchComplete(ctx, jobID, response.Summary.TotalCases, response.Metadata.SearchedJurisdictions); err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("Failed to record search completion")
	}

	return nil
}

// archiveSnapshots uploads whatever result pages the adapters managed
// to capture, including those from failed attempts.
func (c *SearchConsumer) archiveSnapshots(ctx context.Context, jobID string, diagnostics []courts.Diagnostic) {
	if c.archiver == nil {
		return
	}
	for _, diag := range diagnostics {
		if !diag.HasSnapshot {
			continue
		}
		object, err := c.archiver.Archive(ctx, jobID, diag.Jurisdiction, diag.Snapshot)
		if err != nil {
			log.Warn().
				Err(err).
				Str("job_id", jobID).
				Str("jurisdiction", diag.Jurisdiction).
				Msg("Failed to archive snapshot")
			continue
		}
		if err := c.logService.SnapshotArchived(ctx, jobID, diag.Jurisdiction, object); err != nil {
			log.Warn().Err(err).Str("job_id", jobID).Msg("Failed to record archived snapshot")
		}
	}
}

// drainResults logs task outcomes so pool results never back up.
func (c *SearchConsumer) drainResults() {
	for result := range c.pool.Results() {
		if result.IsSuccess() {
			log.Info().
				Str("job_id", result.TaskID).
				Dur("duration", result.Duration).
				Msg("Search job finished")
			continue
		}
		log.Error().
			Err(result.Error).
			Str("job_id", result.TaskID).
			Dur("duration", result.Duration).
			Msg("Search job finished with error")
	}
}
