package courts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
)

// ErrUnknownJurisdiction is returned when the requested jurisdiction
// matches no configured adapter.
var ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

// Entry pairs an adapter with its retry policy. A nil Retrier means a
// single attempt, which is the policy for every adapter without active
// bot detection.
type Entry struct {
	Adapter Adapter
	Retrier *Retrier
}

// Diagnostic records the outcome of one jurisdiction's search so a
// zero-case result is distinguishable from a jurisdiction that was
// never reached.
type Diagnostic struct {
	Jurisdiction string
	Err          error
	Duration     time.Duration
	CaseCount    int

	// Snapshot holds the raw results page when the adapter captured
	// one, for evidence archiving.
	Snapshot    string
	HasSnapshot bool

	cases []courtrecord.CourtCase
}

// Orchestrator runs a search across the configured jurisdictions. The
// run is strictly sequential with a courtesy delay between sites, and
// each adapter is isolated so one failure never aborts the rest.
type Orchestrator struct {
	entries       []Entry
	courtesyDelay time.Duration

	// now and sleep are injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator builds an Orchestrator over the given adapters in
// registration order.
func NewOrchestrator(courtesyDelay time.Duration, entries ...Entry) *Orchestrator {
	return &Orchestrator{
		entries:       entries,
		courtesyDelay: courtesyDelay,
		now:           time.Now,
		sleep:         sleepCtx,
	}
}

// Jurisdictions returns the display names of every configured adapter.
func (o *Orchestrator) Jurisdictions() []string {
	return lo.Map(o.entries, func(e Entry, _ int) string {
		return e.Adapter.Jurisdiction()
	})
}

// Search validates the criteria, runs the selected jurisdictions
// sequentially, and returns the aggregate response plus per
// jurisdiction diagnostics. Per-jurisdiction failures degrade to empty
// contributions; only invalid criteria or an unknown jurisdiction fail
// the whole call.
func (o *Orchestrator) Search(ctx context.Context, criteria courtrecord.SearchCriteria) (courtrecord.SearchResponse, []Diagnostic, error) {
	if err := criteria.Validate(); err != nil {
		return courtrecord.SearchResponse{}, nil, err
	}

	selected, err := o.selectEntries(criteria.Jurisdiction)
	if err != nil {
		return courtrecord.SearchResponse{}, nil, err
	}

	var (
		all         []courtrecord.CourtCase
		searched    []string
		diagnostics []Diagnostic
	)
	for i, entry := range selected {
		if i > 0 && o.courtesyDelay > 0 {
			if err := o.sleep(ctx, o.courtesyDelay); err != nil {
				return courtrecord.SearchResponse{}, diagnostics, err
			}
		}
		diag := o.runOne(ctx, entry, criteria)
		diagnostics = append(diagnostics, diag)
		if diag.Err == nil {
			searched = append(searched, diag.Jurisdiction)
		}
		all = append(all, diag.cases...)
	}

	filtered := courtrecord.FilterSort(all, criteria, o.now())
	return courtrecord.BuildResponse(filtered, criteria, searched), diagnostics, nil
}

// runOne executes a single jurisdiction behind the isolation boundary.
// Panics and errors are converted to an empty contribution with a
// diagnostic.
func (o *Orchestrator) runOne(ctx context.Context, entry Entry, criteria courtrecord.SearchCriteria) (diag Diagnostic) {
	name := entry.Adapter.Jurisdiction()
	diag = Diagnostic{Jurisdiction: name}
	start := o.now()

	defer func() {
		diag.Duration = o.now().Sub(start)
		if r := recover(); r != nil {
			diag.Err = fmt.Errorf("adapter panic: %v", r)
			diag.cases = nil
			log.Error().Str("jurisdiction", name).Interface("panic", r).Msg("adapter panicked")
		}
		if snap, ok := entry.Adapter.(Snapshotter); ok {
			if html, has := snap.Snapshot(); has {
				diag.Snapshot = html
				diag.HasSnapshot = true
			}
		}
		if diag.Err != nil {
			log.Warn().Err(diag.Err).Str("jurisdiction", name).Msg("jurisdiction search failed")
		} else {
			log.Info().Str("jurisdiction", name).Int("cases", diag.CaseCount).Msg("jurisdiction search complete")
		}
	}()

	var (
		cases []courtrecord.CourtCase
		err   error
	)
	if entry.Retrier != nil {
		cases, err = entry.Retrier.Run(ctx, entry.Adapter, criteria)
	} else {
		cases, err = entry.Adapter.Search(ctx, criteria)
	}
	if err != nil {
		diag.Err = err
		return diag
	}
	diag.cases = cases
	diag.CaseCount = len(cases)
	return diag
}

// selectEntries resolves an optional jurisdiction filter against the
// configured adapters. Matching is slug-insensitive so "Miami-Dade",
// "miami dade", and "miami-dade-county-fl" all resolve.
func (o *Orchestrator) selectEntries(jurisdiction string) ([]Entry, error) {
	if strings.TrimSpace(jurisdiction) == "" {
		return o.entries, nil
	}
	want := slug(jurisdiction)
	matched := lo.Filter(o.entries, func(e Entry, _ int) bool {
		have := slug(e.Adapter.Jurisdiction())
		return have == want || strings.Contains(have, want)
	})
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJurisdiction, jurisdiction)
	}
	return matched, nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "-")
	return s
}
