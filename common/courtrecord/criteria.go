package courtrecord

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation is returned when search criteria are missing required
// fields or carry malformed values. It is fatal and surfaced to the
// caller before any network activity happens.
var ErrValidation = errors.New("invalid search criteria")

// dobLayout is the only accepted date-of-birth format.
const dobLayout = "01/02/2006"

// SearchCriteria holds the parameters of one search request. It is
// built once per request and treated as immutable afterwards.
// Jurisdiction is optional; when empty every configured jurisdiction is
// searched.
type SearchCriteria struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MiddleName   string `json:"middle_name"`
	DateOfBirth  string `json:"date_of_birth"`
	Jurisdiction string `json:"jurisdiction"`
}

// Validate checks the required fields and the optional date of birth.
// The returned error wraps ErrValidation.
func (c SearchCriteria) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return fmt.Errorf("%w: first_name is required", ErrValidation)
	}
	if strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("%w: last_name is required", ErrValidation)
	}
	if dob := strings.TrimSpace(c.DateOfBirth); dob != "" {
		if _, err := time.Parse(dobLayout, dob); err != nil {
			return fmt.Errorf("%w: date_of_birth must be a valid MM/DD/YYYY date", ErrValidation)
		}
	}
	return nil
}

// FullName returns "First Last" for logs and diagnostics.
func (c SearchCriteria) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
