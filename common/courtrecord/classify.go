package courtrecord

import "strings"

// Category maps a case type to the keywords that identify it in raw
// site text. Matching is case-insensitive substring.
type Category struct {
	Name     string
	Keywords []string
}

// baseCategories is the shared keyword taxonomy. Order matters: the
// first matching category wins, so criminal and family categories sit
// ahead of the broad civil buckets. "ESTATE OF" rather than "ESTATE"
// keeps real-estate filings out of probate.
var baseCategories = []Category{
	{Name: CaseTypeCriminalFelony, Keywords: []string{"FELONY"}},
	{Name: CaseTypeCriminalMisdemeanor, Keywords: []string{"MISDEMEANOR"}},
	{Name: CaseTypeFamily, Keywords: []string{"FAMILY", "DIVORCE", "CUSTODY", "DISSOLUTION"}},
	{Name: CaseTypeProbate, Keywords: []string{"PROBATE", "ESTATE OF", "GUARDIANSHIP"}},
	{Name: CaseTypeCivil, Keywords: []string{"NEGLIGENCE", "TORT", "PERSONAL INJURY", "CIVIL RIGHTS"}},
	{Name: CaseTypeSmallClaims, Keywords: []string{"SMALL CLAIMS"}},
	{Name: CaseTypeForeclosure, Keywords: []string{"FORECLOSURE"}},
	{Name: CaseTypeTraffic, Keywords: []string{"TRAFFIC", "INFRACTION"}},
	{Name: CaseTypeCommercial, Keywords: []string{"COMMERCIAL", "BUSINESS", "CORPORATE"}},
	{Name: CaseTypeContract, Keywords: []string{"CONTRACT", "BREACH", "AGREEMENT"}},
	{Name: CaseTypeInsurance, Keywords: []string{"INSURANCE", "INSURER"}},
	{Name: CaseTypeDebtCollection, Keywords: []string{"DEBT", "COLLECTION", "CREDITOR"}},
	{Name: CaseTypeRealEstate, Keywords: []string{"REAL ESTATE", "PROPERTY"}},
	{Name: CaseTypeMalpractice, Keywords: []string{"MALPRACTICE", "PROFESSIONAL"}},
}

// Classifier turns raw case type and caption text into a canonical
// case type. Jurisdictions can prepend their own lead categories, such
// as docket-code prefixes, that are checked before the shared taxonomy.
type Classifier struct {
	lead []Category

	// Default is returned when no category keyword matches.
	Default string
}

// NewClassifier builds a Classifier with optional jurisdiction-specific
// lead categories checked ahead of the shared taxonomy.
func NewClassifier(defaultType string, lead ...Category) *Classifier {
	return &Classifier{lead: lead, Default: defaultType}
}

// Classify joins the given text fragments and returns the first
// category whose keyword appears. Classification is deterministic for
// a given input.
func (c *Classifier) Classify(texts ...string) string {
	joined := strings.ToUpper(strings.Join(texts, " "))
	for _, cat := range c.lead {
		for _, kw := range cat.Keywords {
			if strings.Contains(joined, kw) {
				return cat.Name
			}
		}
	}
	for _, cat := range baseCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(joined, kw) {
				return cat.Name
			}
		}
	}
	return c.Default
}
