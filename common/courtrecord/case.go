package courtrecord

// Canonical status values. Every adapter's raw status text is bucketed
// into one of these (or a title-cased passthrough) by NormalizeStatus.
const (
	StatusOpen    = "Open"
	StatusClosed  = "Closed"
	StatusUnknown = "Unknown"
)

// UnknownDate is the canonical representation of a missing or
// unparseable filing date. Cases carrying it are never dropped by the
// recency filter.
const UnknownDate = "N/A"

// Case-type taxonomy. Adapters never emit raw site text as a case type;
// classification always lands on one of these.
const (
	CaseTypeCivil               = "Civil"
	CaseTypeCriminalFelony      = "Criminal Felony"
	CaseTypeCriminalMisdemeanor = "Criminal Misdemeanor"
	CaseTypeFamily              = "Family"
	CaseTypeProbate             = "Probate"
	CaseTypeSmallClaims         = "Small Claims"
	CaseTypeForeclosure         = "Foreclosure"
	CaseTypeTraffic             = "Traffic"
	CaseTypeCommercial          = "Commercial"
	CaseTypeContract            = "Contract"
	CaseTypeInsurance           = "Insurance"
	CaseTypeDebtCollection      = "Debt Collection"
	CaseTypeRealEstate          = "Real Estate"
	CaseTypeMalpractice         = "Professional Malpractice"
)

// ExcludedCaseTypes lists case types with no bearing on lending risk.
// The filter drops them before any other rule runs.
var ExcludedCaseTypes = []string{
	CaseTypeFamily,
	CaseTypeCriminalFelony,
	CaseTypeCriminalMisdemeanor,
	CaseTypeTraffic,
}

// CourtCase is the canonical case record shared by every jurisdiction.
// An adapter builds one per raw site record and never mutates it
// afterwards. Records are never merged or deduplicated across
// jurisdictions; each stands alone. CaseNumber identifies the case only
// within its own jurisdiction.
type CourtCase struct {
	CaseNumber               string `json:"case_number"`
	CaseType                 string `json:"case_type"`
	FilingDate               string `json:"filing_date"`
	Status                   string `json:"status"`
	Jurisdiction             string `json:"jurisdiction"`
	Parties                  string `json:"parties"`
	Division                 string `json:"court_division"`
	Judge                    string `json:"judge"`
	Amount                   string `json:"amount"`
	DispositionDate          string `json:"disposition_date"`
	Section                  string `json:"section"`
	VerificationInstructions string `json:"verification_instructions"`
	ResultsURL               string `json:"search_results_url"`
}

// IsOpen reports whether the case represents current legal exposure.
func (c CourtCase) IsOpen() bool {
	return IsOpenStatus(c.Status)
}

// VerificationSteps renders the manual verification guidance attached
// to every case record.
func VerificationSteps(searchURL, caseNumber string) string {
	return "To verify this case manually: " +
		"1. Visit " + searchURL + " " +
		"2. Search for Case Number: " + caseNumber + " " +
		"3. Verify all details match your records"
}
