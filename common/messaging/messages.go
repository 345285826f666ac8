package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
)

// SearchRunMessage represents the message for a search.run event. It carries
// everything a worker needs to execute a court record search on behalf of a
// previously accepted job.
type SearchRunMessage struct {
	JobID    string                     `json:"job_id"`
	Criteria courtrecord.SearchCriteria `json:"criteria"`
}

// Constants for NATS subjects and streams
const (
	StreamName       = "COURTSEARCH"
	SubjectSearchRun = "search.run"
)

// StreamSubjects returns the subject space owned by the search stream.
func StreamSubjects() []string {
	return []string{"search.>"}
}

// PublishSearchRun marshals a search request and publishes it to JetStream,
// waiting for the ack so callers know the job is durably queued.
func PublishSearchRun(ctx context.Context, broker *NatsBroker, msg SearchRunMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal search request: %w", err)
	}

	return broker.PublishSync(ctx, SubjectSearchRun, data)
}
