package newyork

import (
	"testing"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
)

func TestParseResultsTable(t *testing.T) {
	html := `
<html><body>
<table id="searchResults">
  <tr><th>Index Number</th><th>Filing Date</th><th>Status</th><th>Caption</th></tr>
  <tr>
    <td>450123/2024</td>
    <td>02/01/2024</td>
    <td>ACTIVE</td>
    <td>GARCIA, MARIA vs EMPIRE HOLDINGS LLC</td>
  </tr>
  <tr>
    <td>650987/2022</td>
    <td>11/15/2022</td>
    <td>DISPOSED</td>
    <td>GARCIA, MARIA vs STATE FARM INSURANCE</td>
  </tr>
</table>
</body></html>`

	cases, err := ParseResults(html, newClassifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}

	first := cases[0]
	if first.CaseNumber != "450123/2024" {
		t.Errorf("case number = %q", first.CaseNumber)
	}
	if first.FilingDate != "02/01/2024" {
		t.Errorf("filing date = %q", first.FilingDate)
	}
	if first.Status != courtrecord.StatusOpen {
		t.Errorf("status = %q", first.Status)
	}
	if first.CaseType != courtrecord.CaseTypeCommercial {
		t.Errorf("corporate caption should classify Commercial, got %q", first.CaseType)
	}
	if first.Jurisdiction != JurisdictionName {
		t.Errorf("jurisdiction = %q", first.Jurisdiction)
	}

	second := cases[1]
	if second.Status != courtrecord.StatusClosed {
		t.Errorf("status = %q", second.Status)
	}
}

func TestParseResultsContainers(t *testing.T) {
	html := `
<html><body>
<div class="case-result-item">
  NYSCEF Case 451111/2023 filed 05/10/2023, matter is PENDING.
  Contract dispute regarding a purchase agreement.
</div>
<div class="unrelated-panel">No docket data here.</div>
</body></html>`

	cases, err := ParseResults(html, newClassifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(cases))
	}
	c := cases[0]
	if c.CaseNumber != "451111/2023" {
		t.Errorf("case number = %q", c.CaseNumber)
	}
	if c.FilingDate != "05/10/2023" {
		t.Errorf("filing date = %q", c.FilingDate)
	}
	if c.Status != courtrecord.StatusOpen {
		t.Errorf("status = %q", c.Status)
	}
	if c.CaseType != courtrecord.CaseTypeContract {
		t.Errorf("case type = %q", c.CaseType)
	}
}

func TestParseResultsDecidedInContainerIsClosed(t *testing.T) {
	html := `<html><body><div class="result">Matter 777777/2021 DECIDED on 03/03/2022</div></body></html>`
	cases, err := ParseResults(html, newClassifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 1 || cases[0].Status != courtrecord.StatusClosed {
		t.Fatalf("decided container should be Closed: %+v", cases)
	}
}

func TestParseResultsEmptyPage(t *testing.T) {
	cases, err := ParseResults("<html><body><p>No cases found matching your criteria.</p></body></html>", newClassifier())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 0 {
		t.Errorf("expected no cases, got %d", len(cases))
	}
}
