// Package broward searches the Broward County Clerk subscriber portal.
// The portal requires a login before search; results land in a Kendo
// UI grid whose in-memory data source is preferred over re-parsing the
// rendered markup.
package broward

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
	"github.com/lendingdesk/court-search-service/common/courts"
)

const (
	// JurisdictionName is the display name used in case records.
	JurisdictionName = "Broward County, FL"

	baseURL   = "https://www.browardclerk.org"
	loginURL  = baseURL + "/Web2/Account/Login/"
	searchURL = baseURL + "/Web2/CaseSearchECA/Index/?AccessLevel=SUBSCRIBER"
)

var (
	usernameField = courts.FieldLocators{
		"input[name='Username']",
		"input[name='username']",
		"input[id*='Username']",
		"input[id*='username']",
		"input[type='text']",
	}

	passwordField = courts.FieldLocators{
		"#Password",
		"input[name='password']",
		"input[type='password']",
	}

	termsCheckbox = courts.FieldLocators{
		"#chkTerms",
		"input[name='terms']",
		"input[type='checkbox']",
	}

	lastNameField = courts.FieldLocators{
		"#lastName",
		"input[name='lastName']",
		"input[placeholder='Last Name']",
	}

	firstNameField = courts.FieldLocators{
		"#firstName",
		"input[name='firstName']",
		"input[placeholder='First Name']",
	}

	middleNameField = courts.FieldLocators{
		"#middleName",
		"input[name='middleName']",
		"input[placeholder='Middle Name']",
	}

	filingDateFromField = courts.FieldLocators{
		"#filingDateOnOrAfterP",
		"input[name='filingDateOnOrAfterP']",
	}

	submitButton = courts.FieldLocators{
		"#PersonSearchResults",
		"button[type='submit']",
	}

	pagerLocator = courts.FieldLocators{
		".k-pager-numbers",
	}
)

// Credentials hold the subscriber account.
type Credentials struct {
	Username string
	Password string
}

// Adapter is the authenticated, grid-backed Broward search.
type Adapter struct {
	browser    *courts.Browser
	creds      Credentials
	classifier *courtrecord.Classifier
	now        func() time.Time
	snapshot   string
}

// New builds the adapter. The browser capability and subscriber
// credentials are preconditions.
func New(browser *courts.Browser, creds Credentials) (*Adapter, error) {
	if browser == nil {
		return nil, fmt.Errorf("%w: broward requires a browser", courts.ErrCapabilityUnavailable)
	}
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: broward subscriber credentials missing", courts.ErrCapabilityUnavailable)
	}
	return &Adapter{
		browser:    browser,
		creds:      creds,
		classifier: newClassifier(),
		now:        time.Now,
	}, nil
}

func (a *Adapter) Jurisdiction() string {
	return JurisdictionName
}

// Snapshot returns the raw results page captured by the last search.
func (a *Adapter) Snapshot() (string, bool) {
	return a.snapshot, a.snapshot != ""
}

// Search logs in, runs the party-name search, and extracts the grid
// data source, falling back to the rendered table when the grid is not
// reachable.
func (a *Adapter) Search(ctx context.Context, criteria courtrecord.SearchCriteria) ([]courtrecord.CourtCase, error) {
	a.snapshot = ""

	page, err := a.browser.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := a.login(ctx, page); err != nil {
		return nil, err
	}
	if err := page.Navigate(searchURL); err != nil {
		return nil, err
	}
	if err := a.openPartyNameTab(page); err != nil {
		log.Debug().Err(err).Msg("broward party name tab not found, form may already be active")
	}
	if err := a.fillForm(page, criteria); err != nil {
		return nil, err
	}
	if err := a.submit(page); err != nil {
		return nil, err
	}

	// The grid loads its rows over AJAX after navigation; the pager
	// appearing signals the data source is populated.
	if err := page.WaitVisible(pagerLocator); err != nil {
		if err := courts.Pause(ctx, 4*time.Second, 5*time.Second); err != nil {
			return nil, err
		}
	}

	if html, err := page.HTML(); err == nil {
		a.snapshot = html
	}

	if gridJSON, err := page.Eval(gridExtractJS); err == nil {
		cases, err := ParseGridJSON(gridJSON, a.classifier)
		if err == nil && len(cases) > 0 {
			log.Info().Int("cases", len(cases)).Msg("broward grid data extracted")
			return cases, nil
		}
	}

	// Grid unavailable, fall back to the rendered table.
	if a.snapshot == "" {
		return nil, fmt.Errorf("%w: results page not captured", courts.ErrParse)
	}
	cases, err := ParseResultsHTML(a.snapshot, a.classifier)
	if err != nil {
		return nil, err
	}
	log.Info().Int("cases", len(cases)).Msg("broward results parsed from markup")
	return cases, nil
}

// login authenticates against the subscriber portal and verifies the
// session left the login page.
func (a *Adapter) login(ctx context.Context, page *courts.Page) error {
	if err := page.Navigate(loginURL); err != nil {
		return err
	}
	if err := page.Fill(usernameField, a.creds.Username); err != nil {
		return fmt.Errorf("%w: username field: %v", courts.ErrAuthFailed, err)
	}
	if err := page.Fill(passwordField, a.creds.Password); err != nil {
		return fmt.Errorf("%w: password field: %v", courts.ErrAuthFailed, err)
	}
	if err := page.Click(termsCheckbox); err != nil {
		log.Debug().Msg("broward terms checkbox not found")
	}
	if err := page.ClickByText("button", "(?i)log"); err != nil {
		if err := page.PressEnter(); err != nil {
			return fmt.Errorf("%w: submit login: %v", courts.ErrAuthFailed, err)
		}
	}
	if err := courts.Pause(ctx, 2*time.Second, 3*time.Second); err != nil {
		return err
	}

	info, err := page.Rod().Info()
	if err != nil {
		return fmt.Errorf("%w: %v", courts.ErrAuthFailed, err)
	}
	if strings.Contains(strings.ToLower(info.URL), "/account/login") {
		return fmt.Errorf("%w: still on login page", courts.ErrAuthFailed)
	}
	return nil
}

func (a *Adapter) openPartyNameTab(page *courts.Page) error {
	for _, sel := range []string{"a", "button", "[role='tab']", "li"} {
		if err := page.ClickByText(sel, "Party Name"); err == nil {
			return nil
		}
	}
	return page.Click(courts.FieldLocators{"#partyNameTab", "[href*='Party']"})
}

// fillForm fills the name fields and bounds the filing date window so
// the portal only returns cases inside the relevance period.
func (a *Adapter) fillForm(page *courts.Page, criteria courtrecord.SearchCriteria) error {
	if err := page.Fill(lastNameField, criteria.LastName); err != nil {
		return err
	}
	if err := page.Fill(firstNameField, criteria.FirstName); err != nil {
		return err
	}
	if criteria.MiddleName != "" {
		if err := page.Fill(middleNameField, criteria.MiddleName); err != nil {
			log.Debug().Msg("broward has no middle name field")
		}
	}
	fromDate := a.now().AddDate(-courtrecord.CaseAgeLimitYears, 0, 0).Format("01/02/2006")
	if err := page.Fill(filingDateFromField, fromDate); err != nil {
		log.Debug().Msg("broward filing date filter not available")
	}
	return nil
}

func (a *Adapter) submit(page *courts.Page) error {
	if err := page.Click(submitButton); err == nil {
		return nil
	}
	if err := page.ClickByText("button", "Search"); err == nil {
		return nil
	}
	return page.PressEnter()
}
