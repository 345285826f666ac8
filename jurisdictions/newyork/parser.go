package newyork

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
	"github.com/lendingdesk/court-search-service/common/courts"
)

// NYSCEF dockets skew commercial, so party text carrying a corporate
// suffix classifies as Commercial ahead of the shared taxonomy.
func newClassifier() *courtrecord.Classifier {
	return courtrecord.NewClassifier(courtrecord.CaseTypeCivil,
		courtrecord.Category{Name: courtrecord.CaseTypeCommercial, Keywords: []string{"COMPANY", "LLC", "INC"}},
	)
}

var (
	caseNumberPattern = regexp.MustCompile(`\d{4,}[\-/]\d+`)
	datePattern       = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	numberishPattern  = regexp.MustCompile(`\d{4,}`)

	statusWords = []string{"OPEN", "CLOSED", "ACTIVE", "PENDING", "DISPOSED", "DECIDED"}

	resultsTableID     = regexp.MustCompile(`(?i)result|case|search`)
	resultsContainerRe = regexp.MustCompile(`(?i)result|case|item`)
)

// ParseResults extracts cases from a rendered NYSCEF results page.
// Markup varies across court interfaces, so it tries a results table
// by id, then result containers, then any table on the page.
func ParseResults(html string, classifier *courtrecord.Classifier) ([]courtrecord.CourtCase, error) {
	doc, err := courts.ParseDocument(html)
	if err != nil {
		return nil, err
	}

	var cases []courtrecord.CourtCase
	doc.Find("table[id]").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		id, _ := table.Attr("id")
		if !resultsTableID.MatchString(id) {
			return true
		}
		cases = parseTable(table, classifier)
		return false
	})
	if len(cases) > 0 {
		return cases, nil
	}

	doc.Find("div[class]").Each(func(_ int, container *goquery.Selection) {
		class, _ := container.Attr("class")
		if !resultsContainerRe.MatchString(class) {
			return
		}
		if c, ok := parseContainer(container, classifier); ok {
			cases = append(cases, c)
		}
	})
	if len(cases) > 0 {
		return cases, nil
	}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cases = append(cases, parseTable(table, classifier)...)
	})
	return cases, nil
}

func parseTable(table *goquery.Selection, classifier *courtrecord.Classifier) []courtrecord.CourtCase {
	var cases []courtrecord.CourtCase
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
		if c, ok := parseRow(texts, classifier); ok {
			cases = append(cases, c)
		}
	})
	return cases
}

// parseRow identifies columns by content rather than position, since
// NYSCEF interfaces disagree on column order, then falls back to
// positional parsing for anything still missing.
func parseRow(texts []string, classifier *courtrecord.Classifier) (courtrecord.CourtCase, bool) {
	var caseNumber, filingDate, status, parties string

	for _, text := range texts {
		switch {
		case caseNumber == "" && numberishPattern.MatchString(text) && (strings.Contains(text, "-") || strings.Contains(text, "/")) && !datePattern.MatchString(text):
			caseNumber = text
		case filingDate == "" && datePattern.MatchString(text):
			filingDate = text
		case status == "" && containsStatusWord(text):
			status = text
		}
	}

	if caseNumber == "" && len(texts) > 0 {
		caseNumber = texts[0]
	}
	if filingDate == "" && len(texts) > 1 {
		filingDate = texts[1]
	}
	if status == "" && len(texts) > 2 {
		status = texts[2]
	}
	if len(texts) > 3 {
		parties = texts[3]
	}

	if caseNumber == "" {
		return courtrecord.CourtCase{}, false
	}

	return courtrecord.CourtCase{
		CaseNumber:               caseNumber,
		CaseType:                 classifier.Classify(append([]string{parties}, texts...)...),
		FilingDate:               courtrecord.NormalizeDate(filingDate),
		Status:                   courtrecord.NormalizeStatus(status),
		Jurisdiction:             JurisdictionName,
		Parties:                  parties,
		VerificationInstructions: courtrecord.VerificationSteps(searchURL, caseNumber),
		ResultsURL:               searchURL,
	}, true
}

// parseContainer pulls a case out of free-form result markup using the
// docket number shape as the anchor.
func parseContainer(container *goquery.Selection, classifier *courtrecord.Classifier) (courtrecord.CourtCase, bool) {
	text := container.Text()

	caseNumber := caseNumberPattern.FindString(text)
	if caseNumber == "" {
		return courtrecord.CourtCase{}, false
	}

	status := courtrecord.StatusUnknown
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "CLOSED"), strings.Contains(upper, "DISPOSED"), strings.Contains(upper, "DECIDED"):
		status = courtrecord.StatusClosed
	case strings.Contains(upper, "OPEN"), strings.Contains(upper, "ACTIVE"), strings.Contains(upper, "PENDING"):
		status = courtrecord.StatusOpen
	}

	return courtrecord.CourtCase{
		CaseNumber:               caseNumber,
		CaseType:                 classifier.Classify(text),
		FilingDate:               courtrecord.NormalizeDate(datePattern.FindString(text)),
		Status:                   status,
		Jurisdiction:             JurisdictionName,
		Parties:                  "See case details",
		VerificationInstructions: courtrecord.VerificationSteps(searchURL, caseNumber),
		ResultsURL:               searchURL,
	}, true
}

func containsStatusWord(text string) bool {
	upper := strings.ToUpper(text)
	for _, w := range statusWords {
		if strings.Contains(upper, w) {
			return true
		}
	}
	return false
}
