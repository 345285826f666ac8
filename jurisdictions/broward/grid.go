package broward

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/ysmood/gson"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
	"github.com/lendingdesk/court-search-service/common/courts"
)

// gridExtractJS pulls the Kendo grid's in-memory data source. The DOM
// may not carry every row yet when it runs, the data source always
// does.
const gridExtractJS = `() => {
	const grid = $(".k-grid").data("kendoGrid");
	if (!grid) return null;
	const data = grid.dataSource.data();
	return data.map(item => item.toJSON ? item.toJSON() : item);
}`

func newClassifier() *courtrecord.Classifier {
	return courtrecord.NewClassifier(courtrecord.CaseTypeCivil,
		courtrecord.Category{Name: courtrecord.CaseTypeCriminalFelony, Keywords: []string{"CRIMINAL"}},
		courtrecord.Category{Name: courtrecord.CaseTypeProbate, Keywords: []string{"ADMINISTRATION"}},
	)
}

// ParseGridJSON converts the serialized Kendo data source into case
// records. Grid fields: CaseNumber, Style, CourtType, CaseUTypeDesc,
// SortCaseFiledDate (YYYY/MM/DD), DispositionCode, CaseStatusDesc,
// CaseStatusDate, JudgeName, CourtLocation.
func ParseGridJSON(gridJSON string, classifier *courtrecord.Classifier) ([]courtrecord.CourtCase, error) {
	parsed := gson.NewFrom(gridJSON)
	if parsed.Nil() {
		return nil, fmt.Errorf("%w: kendo grid not present", courts.ErrParse)
	}

	var cases []courtrecord.CourtCase
	for _, row := range parsed.Arr() {
		caseNumber := gridField(row, "CaseNumber")
		if caseNumber == "" {
			continue
		}

		status := gridField(row, "DispositionCode")
		if status == "" {
			status = gridField(row, "CaseStatusDesc")
		}

		cases = append(cases, courtrecord.CourtCase{
			CaseNumber:               caseNumber,
			CaseType:                 classifier.Classify(gridField(row, "CourtType"), gridField(row, "CaseUTypeDesc")),
			FilingDate:               courtrecord.NormalizeDate(gridField(row, "SortCaseFiledDate")),
			Status:                   courtrecord.NormalizeStatus(status),
			Jurisdiction:             JurisdictionName,
			Parties:                  courtrecord.CleanText(gridField(row, "Style")),
			Division:                 gridField(row, "CourtLocation"),
			Judge:                    gridField(row, "JudgeName"),
			DispositionDate:          courtrecord.NormalizeDate(gridField(row, "CaseStatusDate")),
			VerificationInstructions: courtrecord.VerificationSteps(searchURL, caseNumber),
			ResultsURL:               searchURL,
		})
	}
	return cases, nil
}

// gridField reads a grid column, tolerating rows that omit it.
func gridField(row gson.JSON, key string) string {
	field, ok := row.Gets(key)
	if !ok || field.Nil() {
		return ""
	}
	return field.Str()
}

// ParseResultsHTML is the fallback for when the grid's data source is
// not reachable. Known column order: Case Number, Case Style, Case
// Type, Filing Date, Case Status, Access Level.
func ParseResultsHTML(html string, classifier *courtrecord.Classifier) ([]courtrecord.CourtCase, error) {
	doc, err := courts.ParseDocument(html)
	if err != nil {
		return nil, err
	}

	var cases []courtrecord.CourtCase
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}
		var texts []string
		cells.Each(func(_ int, cell *goquery.Selection) {
			texts = append(texts, courtrecord.CleanText(cell.Text()))
		})

		caseNumber := texts[0]
		if caseNumber == "" {
			return
		}
		cases = append(cases, courtrecord.CourtCase{
			CaseNumber:               caseNumber,
			CaseType:                 classifier.Classify(texts[2]),
			FilingDate:               courtrecord.NormalizeDate(texts[3]),
			Status:                   courtrecord.NormalizeStatus(texts[4]),
			Jurisdiction:             JurisdictionName,
			Parties:                  texts[1],
			VerificationInstructions: courtrecord.VerificationSteps(searchURL, caseNumber),
			ResultsURL:               searchURL,
		})
	})
	return cases, nil
}
