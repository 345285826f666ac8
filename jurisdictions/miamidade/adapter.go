// Package miamidade searches the Miami-Dade Clerk's Online Case Search
// portal. The portal is a JavaScript-rendered SPA reached through a
// Party Name menu item; no authentication is required but a CAPTCHA
// can block results.
package miamidade

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
	JurisdictionName = "Miami-Dade County, FL"

	baseURL   = "https://www2.miamidadeclerk.gov"
	searchURL = baseURL + "/ocs/"
)

var (
	partyNameNav = courts.FieldLocators{
		"span.cursorPointer",
		"[role='button']",
		"a",
	}

	firstNameField = courts.FieldLocators{
		"#partyFirstName",
		"input[name='partyFirstName']",
		"input[name*='firstName']",
		"input[placeholder*='First']",
	}

	lastNameField = courts.FieldLocators{
		"#partyLastName",
		"input[name='partyLastName']",
		"input[name*='lastName']",
		"input[placeholder*='Last']",
	}

	middleNameField = courts.FieldLocators{
		"#partyMiddleName",
		"input[name='partyMiddleName']",
		"input[name*='middleName']",
		"input[placeholder*='Middle']",
	}

	dobField = courts.FieldLocators{
		"#partyDOB",
		"input[name='partyDOB']",
		"input[name*='DOB']",
		"input[name*='dateOfBirth']",
		"input[placeholder*='Birth']",
	}

	submitButton = courts.FieldLocators{
		"button[type='submit']",
		"input[type='submit']",
		".search-button",
		"#btnSearch",
	}

	captchaIndicators = courts.FieldLocators{
		"iframe[src*='recaptcha']",
		"iframe[src*='captcha']",
		".g-recaptcha",
		"#recaptcha",
		"div[class*='captcha']",
	}
)

// Adapter is the session-based Miami-Dade search.
type Adapter struct {
	browser    *courts.Browser
	fetcher    *courts.Fetcher
	classifier *courtrecord.Classifier
	snapshot   string
}

// New builds the adapter. The browser capability is a precondition.
func New(browser *courts.Browser) (*Adapter, error) {
	if browser == nil {
		return nil, fmt.Errorf("%w: miami-dade requires a browser", courts.ErrCapabilityUnavailable)
	}
	return &Adapter{
		browser:    browser,
		fetcher:    courts.NewFetcher(15 * time.Second),
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

// Search navigates the OCS portal, fills the party-name form and
// parses the rendered result cards.
func (a *Adapter) Search(ctx context.Context, criteria courtrecord.SearchCriteria) ([]courtrecord.CourtCase, error) {
	a.snapshot = ""

	// Probe the portal over plain HTTP first, it is much cheaper than
	// finding out through a dead browser session.
	if _, err := a.fetcher.GetDocument(ctx, searchURL); err != nil {
		return nil, err
	}

	page, err := a.browser.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Navigate(searchURL); err != nil {
		return nil, err
	}
	// The SPA keeps rendering after the network goes idle.
	if err := courts.Pause(ctx, 2*time.Second, 3*time.Second); err != nil {
		return nil, err
	}

	if err := a.openPartyNameSearch(page); err != nil {
		return nil, err
	}
	if err := a.fillForm(page, criteria); err != nil {
		return nil, err
	}
	if err := a.submit(page); err != nil {
		return nil, err
	}
	if err := courts.Pause(ctx, 3*time.Second, 4*time.Second); err != nil {
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
	if len(cases) == 0 && page.Has(captchaIndicators) {
		return nil, fmt.Errorf("%w: captcha on results page", courts.ErrChallengeBlocked)
	}
	log.Info().Int("cases", len(cases)).Msg("miami-dade search parsed")
	return cases, nil
}

// openPartyNameSearch clicks through the portal menu to the Party Name
// search form.
func (a *Adapter) openPartyNameSearch(page *courts.Page) error {
	var lastErr error
	for _, sel := range partyNameNav {
		if err := page.ClickByText(sel, "Party Name|Party"); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: party name menu: %v", courts.ErrFormNotFound, lastErr)
}

// fillForm fills the required name fields and, when the site exposes
// them, the middle name and date of birth.
func (a *Adapter) fillForm(page *courts.Page, criteria courtrecord.SearchCriteria) error {
	if err := page.Fill(firstNameField, criteria.FirstName); err != nil {
		return err
	}
	if err := page.Fill(lastNameField, criteria.LastName); err != nil {
		return err
	}
	if criteria.MiddleName != "" {
		if err := page.Fill(middleNameField, criteria.MiddleName); err != nil {
			log.Debug().Msg("miami-dade has no middle name field")
		}
	}
	if criteria.DateOfBirth != "" {
		if err := page.Fill(dobField, criteria.DateOfBirth); err != nil {
			log.Debug().Msg("miami-dade has no date of birth field")
		}
	}
	return nil
}

// submit clicks the search button, falling back to a bare Enter press
// when no button matches.
func (a *Adapter) submit(page *courts.Page) error {
	if err := page.ClickByText("button", "Search|Find|Submit"); err == nil {
		return nil
	}
	if err := page.Click(submitButton); err == nil {
		return nil
	}
	return page.PressEnter()
}
