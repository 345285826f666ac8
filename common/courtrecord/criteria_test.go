package courtrecord

import (
	"errors"
	"testing"
)

func TestSearchCriteriaValidate(t *testing.T) {
	tests := []struct {
		name     string
		criteria SearchCriteria
		wantErr  bool
	}{
		{
			name:     "valid minimal",
			criteria: SearchCriteria{FirstName: "John", LastName: "Smith"},
		},
		{
			name:     "valid with dob",
			criteria: SearchCriteria{FirstName: "John", LastName: "Smith", DateOfBirth: "01/15/1985"},
		},
		{
			name:     "missing first name",
			criteria: SearchCriteria{LastName: "Smith"},
			wantErr:  true,
		},
		{
			name:     "missing last name",
			criteria: SearchCriteria{FirstName: "John"},
			wantErr:  true,
		},
		{
			name:     "whitespace only last name",
			criteria: SearchCriteria{FirstName: "John", LastName: "   "},
			wantErr:  true,
		},
		{
			name:     "malformed dob",
			criteria: SearchCriteria{FirstName: "John", LastName: "Smith", DateOfBirth: "1985-01-15"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.criteria.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSearchCriteriaFullName(t *testing.T) {
	c := SearchCriteria{FirstName: "Maria", LastName: "Garcia"}
	if got := c.FullName(); got != "Maria Garcia" {
		t.Errorf("FullName() = %q, want %q", got, "Maria Garcia")
	}
}
