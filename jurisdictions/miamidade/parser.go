package miamidade

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
	"github.com/lendingdesk/court-search-service/common/courts"
)

// Docket-code categories checked ahead of the shared keyword taxonomy.
// Miami-Dade encodes the court in the case type code and section, e.g.
// "CA010" or "FA - Family".
func newClassifier() *courtrecord.Classifier {
	return courtrecord.NewClassifier(courtrecord.CaseTypeCivil,
		courtrecord.Category{Name: courtrecord.CaseTypeCriminalFelony, Keywords: []string{"CF", "CTC"}},
		courtrecord.Category{Name: courtrecord.CaseTypeCriminalMisdemeanor, Keywords: []string{"CM", "MM"}},
		courtrecord.Category{Name: courtrecord.CaseTypeFamily, Keywords: []string{"FA", "DR"}},
		courtrecord.Category{Name: courtrecord.CaseTypeProbate, Keywords: []string{"PR"}},
		courtrecord.Category{Name: courtrecord.CaseTypeCivil, Keywords: []string{"CA"}},
		courtrecord.Category{Name: courtrecord.CaseTypeSmallClaims, Keywords: []string{"SC"}},
		courtrecord.Category{Name: courtrecord.CaseTypeTraffic, Keywords: []string{"TR"}},
	)
}

var (
	datePattern   = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	dollarPattern = regexp.MustCompile(`\$[\d,]+\.?\d*`)
)

// ParseResults extracts cases from the rendered OCS results page. The
// portal renders one TitleSearchTab card per case with p[data-id]
// detail fields; a generic table parser covers older markup.
func ParseResults(html string, classifier *courtrecord.Classifier) ([]courtrecord.CourtCase, error) {
	doc, err := courts.ParseDocument(html)
	if err != nil {
		return nil, err
	}

	var cases []courtrecord.CourtCase
	doc.Find("div[class*='TitleSearchTab']").Each(func(_ int, card *goquery.Selection) {
		if c, ok := parseCard(card, classifier); ok {
			cases = append(cases, c)
		}
	})
	if len(cases) == 0 {
		cases = parseTables(doc)
	}
	return cases, nil
}

func parseCard(card *goquery.Selection, classifier *courtrecord.Classifier) (courtrecord.CourtCase, bool) {
	field := func(name string) string {
		return courtrecord.CleanText(card.Find("p[data-id='" + name + "']").First().Text())
	}

	caseNumber := field("Local Case Number")
	if caseNumber == "" {
		caseNumber = field("State Case Number")
	}
	// Cards without a case number are sub-elements of a real card.
	if caseNumber == "" || caseNumber == "Unknown" {
		return courtrecord.CourtCase{}, false
	}

	parties := courtrecord.CleanText(card.Find("p.fw-bold").First().Text())
	if parties == "" {
		parties = "Unknown"
	}

	filingDate := field("Filing Date")
	if filingDate == "" {
		filingDate = datePattern.FindString(card.Text())
	}

	section := field("Section")
	division := field("Division")
	if division == "" {
		division = section
	}

	amount := ""
	for _, name := range []string{"Amount", "Claim Amount", "Judgment Amount", "Damages"} {
		if v := field(name); v != "" && v != courtrecord.UnknownDate {
			amount = v
			break
		}
	}
	if amount == "" {
		amount = dollarPattern.FindString(card.Text())
	}

	disposition := field("Disposition Date")
	if disposition == "" {
		disposition = field("Closed Date")
	}

	return courtrecord.CourtCase{
		CaseNumber:               caseNumber,
		CaseType:                 classifier.Classify(field("Case Type"), section),
		FilingDate:               courtrecord.NormalizeDate(filingDate),
		Status:                   courtrecord.NormalizeStatus(field("Case Status")),
		Jurisdiction:             JurisdictionName,
		Parties:                  parties,
		Division:                 division,
		Judge:                    field("Judge"),
		Amount:                   amount,
		DispositionDate:          courtrecord.NormalizeDate(disposition),
		Section:                  section,
		VerificationInstructions: courtrecord.VerificationSteps(searchURL, caseNumber),
		ResultsURL:               searchURL,
	}, true
}

// parseTables is the fallback for table-based result markup.
func parseTables(doc *goquery.Document) []courtrecord.CourtCase {
	var cases []courtrecord.CourtCase
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			cells := row.Find("td, th")
			if cells.Length() < 3 {
				return
			}
			var texts []string
			cells.Each(func(_ int, cell *goquery.Selection) {
				texts = append(texts, courtrecord.CleanText(cell.Text()))
			})
			if c, ok := parseTableRow(texts); ok {
				cases = append(cases, c)
			}
		})
	})
	return cases
}

func parseTableRow(texts []string) (courtrecord.CourtCase, bool) {
	caseNumber := ""
	if len(texts) > 0 {
		caseNumber = texts[0]
	}
	if caseNumber == "" {
		return courtrecord.CourtCase{}, false
	}

	filingDate := courtrecord.UnknownDate
	for _, t := range texts {
		if m := datePattern.FindString(t); m != "" {
			filingDate = m
			break
		}
	}

	// Row text is unstructured, so only keyword hits count; anything
	// else stays Unknown instead of a title-cased passthrough.
	status := courtrecord.NormalizeStatus(strings.Join(texts, " "))
	if status != courtrecord.StatusOpen && status != courtrecord.StatusClosed {
		status = courtrecord.StatusUnknown
	}

	return courtrecord.CourtCase{
		CaseNumber:               caseNumber,
		CaseType:                 courtrecord.CaseTypeCivil,
		FilingDate:               courtrecord.NormalizeDate(filingDate),
		Status:                   status,
		Jurisdiction:             JurisdictionName,
		Parties:                  "See case details",
		VerificationInstructions: courtrecord.VerificationSteps(searchURL, caseNumber),
		ResultsURL:               searchURL,
	}, true
}
