package courts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
)

var orchestratorNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

type fakeAdapter struct {
	name  string
	cases []courtrecord.CourtCase
	err   error
	panic bool
	calls int
}

func (a *fakeAdapter) Jurisdiction() string { return a.name }

func (a *fakeAdapter) Search(_ context.Context, _ courtrecord.SearchCriteria) ([]courtrecord.CourtCase, error) {
	a.calls++
	if a.panic {
		panic("selector blew up")
	}
	return a.cases, a.err
}

func newTestOrchestrator(entries ...Entry) (*Orchestrator, *[]time.Duration) {
	var slept []time.Duration
	o := NewOrchestrator(2*time.Second, entries...)
	o.now = func() time.Time { return orchestratorNow }
	o.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return o, &slept
}

func openCase(jurisdiction, number, filed string) courtrecord.CourtCase {
	return courtrecord.CourtCase{
		CaseNumber:   number,
		CaseType:     courtrecord.CaseTypeCivil,
		FilingDate:   filed,
		Status:       courtrecord.StatusOpen,
		Jurisdiction: jurisdiction,
		Parties:      "MARIA GARCIA vs ACME CORP",
	}
}

func closedCase(jurisdiction, number, filed string) courtrecord.CourtCase {
	c := openCase(jurisdiction, number, filed)
	c.Status = courtrecord.StatusClosed
	return c
}

func TestOrchestratorAggregatesAcrossJurisdictions(t *testing.T) {
	// Miami-Dade contributes an open 2023 case and a closed 2019 case
	// that falls outside the search window. Broward contributes an open
	// 2024 case. The result is two open cases, newest first.
	miami := &fakeAdapter{name: "Miami-Dade County, FL", cases: []courtrecord.CourtCase{
		openCase("Miami-Dade County, FL", "2023-CA-000111", "01/01/2023"),
		closedCase("Miami-Dade County, FL", "2019-CA-000222", "05/05/2019"),
	}}
	broward := &fakeAdapter{name: "Broward County, FL", cases: []courtrecord.CourtCase{
		openCase("Broward County, FL", "CACE-24-001234", "06/01/2024"),
	}}
	o, slept := newTestOrchestrator(Entry{Adapter: miami}, Entry{Adapter: broward})

	resp, diags, err := o.Search(context.Background(), courtrecord.SearchCriteria{FirstName: "Maria", LastName: "Garcia"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Summary.TotalCases != 2 || resp.Summary.OpenCases != 2 || !resp.Summary.HasOpenCases {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if resp.Cases[0].CaseNumber != "CACE-24-001234" || resp.Cases[1].CaseNumber != "2023-CA-000111" {
		t.Errorf("wrong order: %s, %s", resp.Cases[0].CaseNumber, resp.Cases[1].CaseNumber)
	}
	if len(resp.Metadata.SearchedJurisdictions) != 2 {
		t.Errorf("searched = %v", resp.Metadata.SearchedJurisdictions)
	}
	if len(diags) != 2 {
		t.Errorf("diagnostics = %d", len(diags))
	}
	// One courtesy delay between the two jurisdictions.
	if len(*slept) != 1 || (*slept)[0] != 2*time.Second {
		t.Errorf("slept = %v", *slept)
	}
}

func TestOrchestratorIsolatesFailures(t *testing.T) {
	failing := &fakeAdapter{name: "Miami-Dade County, FL", err: ErrFormNotFound}
	panicking := &fakeAdapter{name: "Broward County, FL", panic: true}
	healthy := &fakeAdapter{name: "New York State", cases: []courtrecord.CourtCase{
		openCase("New York State", "450123/2024", "02/01/2024"),
	}}
	o, _ := newTestOrchestrator(Entry{Adapter: failing}, Entry{Adapter: panicking}, Entry{Adapter: healthy})

	resp, diags, err := o.Search(context.Background(), courtrecord.SearchCriteria{FirstName: "Maria", LastName: "Garcia"})
	if err != nil {
		t.Fatalf("per-jurisdiction failures must not fail the search: %v", err)
	}
	if healthy.calls != 1 {
		t.Error("healthy adapter was not reached after earlier failures")
	}
	if resp.Summary.TotalCases != 1 {
		t.Errorf("total = %d", resp.Summary.TotalCases)
	}
	if len(resp.Metadata.SearchedJurisdictions) != 1 || resp.Metadata.SearchedJurisdictions[0] != "New York State" {
		t.Errorf("searched = %v", resp.Metadata.SearchedJurisdictions)
	}
	if !errors.Is(diags[0].Err, ErrFormNotFound) {
		t.Errorf("diag[0].Err = %v", diags[0].Err)
	}
	if diags[1].Err == nil {
		t.Error("panic must surface as a diagnostic")
	}
}

func TestOrchestratorInvalidCriteria(t *testing.T) {
	adapter := &fakeAdapter{name: "Miami-Dade County, FL"}
	o, _ := newTestOrchestrator(Entry{Adapter: adapter})

	_, _, err := o.Search(context.Background(), courtrecord.SearchCriteria{FirstName: "Maria"})
	if !errors.Is(err, courtrecord.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if adapter.calls != 0 {
		t.Error("validation must fail before any adapter runs")
	}
}

func TestOrchestratorJurisdictionSelection(t *testing.T) {
	miami := &fakeAdapter{name: "Miami-Dade County, FL"}
	broward := &fakeAdapter{name: "Broward County, FL"}
	o, _ := newTestOrchestrator(Entry{Adapter: miami}, Entry{Adapter: broward})

	criteria := courtrecord.SearchCriteria{FirstName: "Maria", LastName: "Garcia", Jurisdiction: "miami-dade"}
	if _, _, err := o.Search(context.Background(), criteria); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if miami.calls != 1 || broward.calls != 0 {
		t.Errorf("selection wrong: miami=%d broward=%d", miami.calls, broward.calls)
	}

	criteria.Jurisdiction = "orange county"
	_, _, err := o.Search(context.Background(), criteria)
	if !errors.Is(err, ErrUnknownJurisdiction) {
		t.Fatalf("want ErrUnknownJurisdiction, got %v", err)
	}
}

func TestOrchestratorZeroCasesIsSuccess(t *testing.T) {
	adapter := &fakeAdapter{name: "Miami-Dade County, FL"}
	o, _ := newTestOrchestrator(Entry{Adapter: adapter})

	resp, _, err := o.Search(context.Background(), courtrecord.SearchCriteria{FirstName: "Maria", LastName: "Garcia"})
	if err != nil {
		t.Fatalf("zero cases must not be an error: %v", err)
	}
	if resp.Cases == nil || len(resp.Cases) != 0 {
		t.Errorf("cases = %v", resp.Cases)
	}
	if len(resp.Metadata.SearchedJurisdictions) != 1 {
		t.Errorf("searched = %v", resp.Metadata.SearchedJurisdictions)
	}
}

func TestOrchestratorUsesRetrier(t *testing.T) {
	flaky := &scriptedAdapter{
		name: "New York State",
		results: [][]courtrecord.CourtCase{nil, {
			openCase("New York State", "450123/2024", "02/01/2024"),
		}},
		errs: []error{ErrChallengeBlocked, nil},
	}
	retrier := &Retrier{
		Delays: DefaultBackoff,
		Sleep:  func(_ context.Context, _ time.Duration) error { return nil },
	}
	o, _ := newTestOrchestrator(Entry{Adapter: flaky, Retrier: retrier})

	resp, _, err := o.Search(context.Background(), courtrecord.SearchCriteria{FirstName: "Maria", LastName: "Garcia"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flaky.calls != 2 {
		t.Errorf("retrier should drive a second attempt, calls = %d", flaky.calls)
	}
	if resp.Summary.TotalCases != 1 {
		t.Errorf("total = %d", resp.Summary.TotalCases)
	}
}
