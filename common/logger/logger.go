package logger

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lendingdesk/court-search-service/common/db"
	"github.com/lendingdesk/court-search-service/common/services"
)

// LogEvent represents one structured service event.
type LogEvent struct {
	JobID     string
	EventType string
	Message   string
	Details   interface{}
}

// fallbackLogger reports hook failures without going through the
// hooked global logger.
var fallbackLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SearchLogHook implements zerolog.Hook and mirrors Info-and-above log
// lines into the search_logs table.
type SearchLogHook struct {
	repo *services.SearchLogRepository
}

// NewSearchLogHook creates a new log hook
func NewSearchLogHook(db *db.DB) *SearchLogHook {
	return &SearchLogHook{
		repo: services.NewSearchLogRepository(db),
	}
}

// Run implements zerolog.Hook.Run
func (h *SearchLogHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.InfoLevel {
		return
	}

	event := LogEvent{
		Message:   msg,
		EventType: level.String(),
	}

	// Written asynchronously so logging never blocks a search.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.store(ctx, event); err != nil {
			// Report on a hookless logger to avoid recursing back here.
			fallbackLogger.Error().Err(err).Msg("Failed to log to database via hook")
		}
	}()
}

func (h *SearchLogHook) store(ctx context.Context, event LogEvent) error {
	var detailsJSON json.RawMessage
	if event.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			detailsJSON = json.RawMessage("{}")
		}
	} else {
		detailsJSON = json.RawMessage("{}")
	}

	return h.repo.Create(ctx, services.CreateSearchLogParams{
		ID:        uuid.New().String(),
		JobID:     pgtype.Text{String: event.JobID, Valid: event.JobID != ""},
		EventType: event.EventType,
		Message:   pgtype.Text{String: event.Message, Valid: event.Message != ""},
		Details:   detailsJSON,
		CreatedAt: time.Now(),
	})
}

// InitializeLogging attaches the database hook to the global logger.
func InitializeLogging(db *db.DB) {
	hook := NewSearchLogHook(db)
	log.Logger = log.Logger.Hook(hook)
}

// LogService writes domain events with job context, unlike the hook
// which only sees bare log lines.
type LogService struct {
	repo *services.SearchLogRepository
}

// NewLogService creates a new log service
func NewLogService(db *db.DB) *LogService {
	return &LogService{
		repo: services.NewSearchLogRepository(db),
	}
}

// Log creates a log entry in the database
func (s *LogService) Log(ctx context.Context, event LogEvent) error {
	var detailsJSON json.RawMessage
	if event.Details != nil {
		var err error
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal log details")
			detailsJSON = json.RawMessage("{}")
		}
	} else {
		detailsJSON = json.RawMessage("{}")
	}

	err := s.repo.Create(ctx, services.CreateSearchLogParams{
		ID:        uuid.New().String(),
		JobID:     pgtype.Text{String: event.JobID, Valid: event.JobID != ""},
		EventType: event.EventType,
		Message:   pgtype.Text{String: event.Message, Valid: event.Message != ""},
		Details:   detailsJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to insert log into database")
		return err
	}

	logEntry := log.Info()
	if event.JobID != "" {
		logEntry = logEntry.Str("jobId", event.JobID)
	}
	logEntry.
		Str("eventType", event.EventType).
		Str("message", event.Message).
		Interface("details", event.Details).
		Msg("Search event")

	return nil
}

// SearchStart logs the start of a search job.
func (s *LogService) SearchStart(ctx context.Context, jobID, fullName string) error {
	return s.Log(ctx, LogEvent{
		JobID:     jobID,
		EventType: "search.started",
		Message:   "Search started",
		Details: map[string]interface{}{
			"name": fullName,
		},
	})
}

// SearchComplete logs the completion of a search job.
func (s *LogService) SearchComplete(ctx context.Context, jobID string, totalCases int, searched []string) error {
	return s.Log(ctx, LogEvent{
		JobID:     jobID,
		EventType: "search.completed",
		Message:   "Search completed",
		Details: map[string]interface{}{
			"total_cases":            totalCases,
			"searched_jurisdictions": searched,
		},
	})
}

// SnapshotArchived records where a jurisdiction's evidence snapshot
// was stored.
func (s *LogService) SnapshotArchived(ctx context.Context, jobID, jurisdiction, object string) error {
	return s.Log(ctx, LogEvent{
		JobID:     jobID,
		EventType: "snapshot.archived",
		Message:   "Evidence snapshot archived",
		Details: map[string]interface{}{
			"jurisdiction": jurisdiction,
			"object":       object,
		},
	})
}

// SearchError logs a failed search job.
func (s *LogService) SearchError(ctx context.Context, jobID, message string, err error) error {
	return s.Log(ctx, LogEvent{
		JobID:     jobID,
		EventType: "error",
		Message:   message,
		Details: map[string]interface{}{
			"error": err.Error(),
		},
	})
}
