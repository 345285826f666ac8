package courts

import (
	"context"
	"time"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
	"github.com/rs/zerolog/log"
)

// DefaultBackoff is the per-attempt delay sequence for adapters that
// face active bot detection. The number of entries bounds the number
// of attempts.
var DefaultBackoff = []time.Duration{10 * time.Second, 30 * time.Second, 90 * time.Second}

// Retrier wraps one adapter search call with bounded retry. Only
// retryable failures, unresolved challenges and timeouts, trigger
// another attempt; everything else returns immediately.
type Retrier struct {
	// Delays holds one backoff entry per attempt. A delay is only
	// observed between attempts, so the last entry never sleeps.
	Delays []time.Duration

	// Sleep is injectable for tests. Defaults to a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier builds a Retrier with the default backoff sequence.
func NewRetrier() *Retrier {
	return &Retrier{Delays: DefaultBackoff}
}

// Run invokes the adapter until it succeeds, exhausts its attempts, or
// hits a non-retryable failure. The last error is returned after
// exhaustion; the orchestrator downgrades it to an empty contribution.
func (r *Retrier) Run(ctx context.Context, adapter Adapter, criteria courtrecord.SearchCriteria) ([]courtrecord.CourtCase, error) {
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	attempts := len(r.Delays)
	if attempts == 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		cases, err := adapter.Search(ctx, criteria)
		if err == nil {
			return cases, nil
		}
		lastErr = err
		if !Retryable(err) {
			return nil, err
		}
		if attempt < attempts-1 {
			delay := r.Delays[attempt]
			log.Warn().
				Err(err).
				Str("jurisdiction", adapter.Jurisdiction()).
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Msg("search attempt failed, backing off")
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
