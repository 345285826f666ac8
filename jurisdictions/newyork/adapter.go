// Package newyork searches the NYSCEF statewide case search. The site
// sits behind active bot detection, so every attempt runs with a
// randomized fingerprint, human-paced input, and challenge heuristics;
// the retrier above this adapter handles backoff between attempts.
package newyork

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
	"github.com/lendingdesk/court-search-service/common/courts"
)

const (
	// JurisdictionName is the display name used in case records.
	JurisdictionName = "New York State"

	baseURL   = "https://iapps.courts.state.ny.us"
	searchURL = baseURL + "/nyscef/CaseSearch?TAB=name"
)

var (
	firstNameField = courts.FieldLocators{
		"input[name*='firstName']",
		"input[name*='FirstName']",
		"input[id*='firstName']",
		"input[id*='FirstName']",
		"input[placeholder*='First']",
	}

	lastNameField = courts.FieldLocators{
		"input[name*='lastName']",
		"input[name*='LastName']",
		"input[id*='lastName']",
		"input[id*='LastName']",
		"input[placeholder*='Last']",
	}

	middleNameField = courts.FieldLocators{
		"input[name*='middleName']",
		"input[name*='MiddleName']",
		"input[id*='middleName']",
		"input[placeholder*='Middle']",
	}

	dobField = courts.FieldLocators{
		"input[name*='DOB']",
		"input[name*='dateOfBirth']",
		"input[id*='DOB']",
		"input[placeholder*='Birth']",
		"#txtDOB",
	}

	statewideOption = courts.FieldLocators{
		"select[name*='county'] option[value*='all']",
		"select[id*='county'] option[value*='all']",
		"input[name*='statewide']",
		"input[id*='statewide']",
	}

	submitButton = courts.FieldLocators{
		"input[type='submit']",
		"button[type='submit']",
		"input[value='Search']",
		"#btnSearch",
		".search-button",
	}
)

// Adapter is the stealth statewide New York search.
type Adapter struct {
	browser    *courts.Browser
	classifier *courtrecord.Classifier
	snapshot   string
}

// New builds the adapter. The browser capability is a precondition.
func New(browser *courts.Browser) (*Adapter, error) {
	if browser == nil {
		return nil, fmt.Errorf("%w: new york requires a browser", courts.ErrCapabilityUnavailable)
	}
	return &Adapter{
		browser:    browser,
		classifier: newClassifier(),
	}, nil
}

func (a *Adapter) Jurisdiction() string {
	return JurisdictionName
}

// Snapshot returns the raw results page captured by the last search.
func (a *Adapter) Snapshot() (string, bool) {
	return a.snapshot, a.snapshot != ""
}

// Search executes one attempt against NYSCEF. The caller's retrier
// translates ErrChallengeBlocked and timeouts into further attempts,
// each with a fresh fingerprint.
func (a *Adapter) Search(ctx context.Context, criteria courtrecord.SearchCriteria) ([]courtrecord.CourtCase, error) {
	a.snapshot = ""

	page, err := a.browser.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	fp := courts.RandomFingerprint()
	if err := courts.ApplyFingerprint(page, fp); err != nil {
		return nil, fmt.Errorf("%w: fingerprint: %v", courts.ErrSiteUnavailable, err)
	}

	if err := courts.Pause(ctx, 2*time.Second, 5*time.Second); err != nil {
		return nil, err
	}
	if err := page.Navigate(searchURL); err != nil {
		return nil, err
	}
	// Let any challenge script finish before probing for it.
	if err := courts.Pause(ctx, 4*time.Second, 8*time.Second); err != nil {
		return nil, err
	}

	if courts.PageChallenged(page) {
		log.Info().Msg("nyscef challenge detected, waiting for auto-solve")
		if err := courts.Pause(ctx, 8*time.Second, 15*time.Second); err != nil {
			return nil, err
		}
		if courts.PageChallenged(page) {
			return nil, fmt.Errorf("%w: nyscef interstitial did not clear", courts.ErrChallengeBlocked)
		}
	}

	courts.MouseJitter(page, fp)
	courts.ScrollJitter(page)
	if err := courts.Pause(ctx, 500*time.Millisecond, 1500*time.Millisecond); err != nil {
		return nil, err
	}

	if err := a.fillForm(ctx, page, criteria); err != nil {
		return nil, err
	}
	if err := a.submit(page); err != nil {
		return nil, err
	}
	if err := courts.Pause(ctx, 3*time.Second, 5*time.Second); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	a.snapshot = html

	cases, err := ParseResults(html, a.classifier)
	if err != nil {
		return nil, err
	}
	log.Info().Int("cases", len(cases)).Msg("nyscef search parsed")
	return cases, nil
}

func (a *Adapter) fillForm(ctx context.Context, page *courts.Page, criteria courtrecord.SearchCriteria) error {
	if err := courts.HumanType(ctx, page, firstNameField, criteria.FirstName); err != nil {
		return err
	}
	if err := courts.HumanType(ctx, page, lastNameField, criteria.LastName); err != nil {
		return err
	}
	if criteria.MiddleName != "" {
		if err := courts.HumanType(ctx, page, middleNameField, criteria.MiddleName); err != nil {
			log.Debug().Msg("nyscef has no middle name field")
		}
	}
	if criteria.DateOfBirth != "" {
		if err := courts.HumanType(ctx, page, dobField, criteria.DateOfBirth); err != nil {
			log.Debug().Msg("nyscef has no date of birth field")
		}
	}
	// Statewide scope when the county selector offers it.
	if err := page.Click(statewideOption); err != nil {
		log.Debug().Msg("nyscef statewide option not found")
	}
	return nil
}

func (a *Adapter) submit(page *courts.Page) error {
	if err := page.ClickByText("button", "Search"); err == nil {
		return nil
	}
	if err := page.Click(submitButton); err == nil {
		return nil
	}
	return page.PressEnter()
}
