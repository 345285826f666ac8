package courts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
)

type scriptedAdapter struct {
	name    string
	results [][]courtrecord.CourtCase
	errs    []error
	calls   int
}

func (a *scriptedAdapter) Jurisdiction() string { return a.name }

func (a *scriptedAdapter) Search(_ context.Context, _ courtrecord.SearchCriteria) ([]courtrecord.CourtCase, error) {
	i := a.calls
	a.calls++
	return a.results[i], a.errs[i]
}

func testRetrier(slept *[]time.Duration) *Retrier {
	return &Retrier{
		Delays: []time.Duration{10 * time.Second, 30 * time.Second, 90 * time.Second},
		Sleep: func(_ context.Context, d time.Duration) error {
			*slept = append(*slept, d)
			return nil
		},
	}
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	adapter := &scriptedAdapter{
		name:    "New York State",
		results: [][]courtrecord.CourtCase{nil, nil, nil},
		errs:    []error{ErrChallengeBlocked, ErrChallengeBlocked, ErrChallengeBlocked},
	}
	var slept []time.Duration

	_, err := testRetrier(&slept).Run(context.Background(), adapter, courtrecord.SearchCriteria{FirstName: "A", LastName: "B"})
	if !errors.Is(err, ErrChallengeBlocked) {
		t.Fatalf("want ErrChallengeBlocked, got %v", err)
	}
	if adapter.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", adapter.calls)
	}
	// Backoff is observed between attempts only, so the final entry
	// never sleeps.
	want := []time.Duration{10 * time.Second, 30 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestRetrierSucceedsAfterChallenge(t *testing.T) {
	kept := courtrecord.CourtCase{CaseNumber: "2023-001"}
	adapter := &scriptedAdapter{
		name:    "New York State",
		results: [][]courtrecord.CourtCase{nil, {kept}, nil},
		errs:    []error{ErrChallengeBlocked, nil, nil},
	}
	var slept []time.Duration

	cases, err := testRetrier(&slept).Run(context.Background(), adapter, courtrecord.SearchCriteria{FirstName: "A", LastName: "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 1 || cases[0].CaseNumber != "2023-001" {
		t.Errorf("unexpected cases: %+v", cases)
	}
	if adapter.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", adapter.calls)
	}
}

func TestRetrierStopsOnNonRetryable(t *testing.T) {
	adapter := &scriptedAdapter{
		name:    "New York State",
		results: [][]courtrecord.CourtCase{nil, nil, nil},
		errs:    []error{ErrFormNotFound, nil, nil},
	}
	var slept []time.Duration

	_, err := testRetrier(&slept).Run(context.Background(), adapter, courtrecord.SearchCriteria{FirstName: "A", LastName: "B"})
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("want ErrFormNotFound, got %v", err)
	}
	if adapter.calls != 1 {
		t.Errorf("non-retryable error must not be retried, got %d attempts", adapter.calls)
	}
	if len(slept) != 0 {
		t.Errorf("unexpected sleeps: %v", slept)
	}
}

func TestRetryableClassification(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: ErrChallengeBlocked, want: true},
		{err: ErrSiteUnavailable, want: true},
		{err: context.DeadlineExceeded, want: true},
		{err: ErrFormNotFound, want: false},
		{err: ErrAuthFailed, want: false},
		{err: ErrParse, want: false},
		{err: errors.New("boom"), want: false},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
