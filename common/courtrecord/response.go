package courtrecord

import "github.com/samber/lo"

const (
	// DisclaimerNote accompanies every result set.
	DisclaimerNote = "Results are for preliminary due diligence only. Always verify with official court records."

	// OfficialVerificationURL points users at the official statewide
	// record access portal.
	OfficialVerificationURL = "https://www.myflcourtaccess.com"
)

// Summary aggregates case counts for a completed search.
type Summary struct {
	TotalCases   int  `json:"total_cases"`
	OpenCases    int  `json:"open_cases"`
	ClosedCases  int  `json:"closed_cases"`
	HasOpenCases bool `json:"has_open_cases"`
}

// Metadata describes how the search was performed so a zero-case
// result is distinguishable from jurisdictions that were never reached.
type Metadata struct {
	SearchedJurisdictions   []string `json:"searched_jurisdictions"`
	Exclusions              []string `json:"exclusions"`
	Note                    string   `json:"note"`
	OfficialVerificationURL string   `json:"official_verification_url"`
}

// SearchResponse is the aggregate shape handed to the serialization
// layer. Criteria echo back with the search period so callers can see
// exactly what was asked.
type SearchResponse struct {
	SearchCriteria SearchCriteriaEcho `json:"search_criteria"`
	Summary        Summary            `json:"summary"`
	Cases          []CourtCase        `json:"cases"`
	Metadata       Metadata           `json:"metadata"`
}

// SearchCriteriaEcho mirrors the submitted criteria plus the applied
// filing-date window.
type SearchCriteriaEcho struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	MiddleName        string `json:"middle_name,omitempty"`
	DateOfBirth       string `json:"date_of_birth,omitempty"`
	Jurisdiction      string `json:"jurisdiction,omitempty"`
	SearchPeriodYears int    `json:"search_period_years"`
}

// BuildResponse assembles the aggregate response from already filtered
// and sorted cases. The cases slice is always non-nil in the output so
// an empty result serializes as [] rather than null.
func BuildResponse(cases []CourtCase, criteria SearchCriteria, searched []string) SearchResponse {
	if cases == nil {
		cases = []CourtCase{}
	}
	open := lo.CountBy(cases, CourtCase.IsOpen)

	return SearchResponse{
		SearchCriteria: SearchCriteriaEcho{
			FirstName:         criteria.FirstName,
			LastName:          criteria.LastName,
			MiddleName:        criteria.MiddleName,
			DateOfBirth:       criteria.DateOfBirth,
			Jurisdiction:      criteria.Jurisdiction,
			SearchPeriodYears: CaseAgeLimitYears,
		},
		Summary: Summary{
			TotalCases:   len(cases),
			OpenCases:    open,
			ClosedCases:  len(cases) - open,
			HasOpenCases: open > 0,
		},
		Cases: cases,
		Metadata: Metadata{
			SearchedJurisdictions:   searched,
			Exclusions:              ExcludedCaseTypes,
			Note:                    DisclaimerNote,
			OfficialVerificationURL: OfficialVerificationURL,
		},
	}
}
