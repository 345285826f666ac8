package courtrecord

import "testing"

func TestClassifierSharedTaxonomy(t *testing.T) {
	classifier := NewClassifier(CaseTypeCivil)

	tests := []struct {
		name string
		text []string
		want string
	}{
		{name: "felony", text: []string{"FELONY BATTERY"}, want: CaseTypeCriminalFelony},
		{name: "misdemeanor", text: []string{"misdemeanor theft"}, want: CaseTypeCriminalMisdemeanor},
		{name: "family from divorce", text: []string{"DIVORCE PROCEEDING"}, want: CaseTypeFamily},
		{name: "probate from estate of", text: []string{"IN RE: ESTATE OF SMITH"}, want: CaseTypeProbate},
		{name: "real estate not probate", text: []string{"REAL ESTATE DISPUTE"}, want: CaseTypeRealEstate},
		{name: "foreclosure action", text: []string{"FORECLOSURE ACTION"}, want: CaseTypeForeclosure},
		{name: "small claims", text: []string{"SMALL CLAIMS UNDER $8000"}, want: CaseTypeSmallClaims},
		{name: "traffic infraction", text: []string{"CIVIL INFRACTION"}, want: CaseTypeTraffic},
		{name: "contract breach", text: []string{"BREACH OF WARRANTY"}, want: CaseTypeContract},
		{name: "insurance", text: []string{"INSURER BAD FAITH"}, want: CaseTypeInsurance},
		{name: "debt collection", text: []string{"CREDITOR CLAIM"}, want: CaseTypeDebtCollection},
		{name: "malpractice", text: []string{"MEDICAL MALPRACTICE"}, want: CaseTypeMalpractice},
		{name: "negligence is civil", text: []string{"AUTO NEGLIGENCE"}, want: CaseTypeCivil},
		{name: "multiple fragments joined", text: []string{"OTHER", "GUARDIANSHIP OF MINOR"}, want: CaseTypeProbate},
		{name: "no match falls to default", text: []string{"REPLEVIN"}, want: CaseTypeCivil},
		{name: "first match wins over later", text: []string{"FELONY TRAFFIC OFFENSE"}, want: CaseTypeCriminalFelony},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.text...); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifierDeterministic(t *testing.T) {
	classifier := NewClassifier(CaseTypeCivil)
	first := classifier.Classify("FORECLOSURE ACTION")
	for i := 0; i < 10; i++ {
		if got := classifier.Classify("FORECLOSURE ACTION"); got != first {
			t.Fatalf("classification not deterministic: %q then %q", first, got)
		}
	}
	if first != CaseTypeForeclosure {
		t.Errorf("FORECLOSURE ACTION classified as %q, want %q", first, CaseTypeForeclosure)
	}
}

func TestClassifierLeadCategories(t *testing.T) {
	// Docket-code prefixes override the shared keyword taxonomy.
	classifier := NewClassifier(CaseTypeCivil,
		Category{Name: CaseTypeTraffic, Keywords: []string{"TR-"}},
		Category{Name: CaseTypeProbate, Keywords: []string{"PR-"}},
	)

	if got := classifier.Classify("PR-2023-001234", "CONTRACT DISPUTE"); got != CaseTypeProbate {
		t.Errorf("lead category should win, got %q", got)
	}
	if got := classifier.Classify("CA-2023-000001", "BREACH OF CONTRACT"); got != CaseTypeContract {
		t.Errorf("shared taxonomy should apply when no lead matches, got %q", got)
	}
}
