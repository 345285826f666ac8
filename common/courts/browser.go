package courts

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

// Browser is the shared page-automation capability. One Browser is
// constructed at startup and handed to every adapter; each search gets
// its own incognito page so sessions never bleed across searches.
type Browser struct {
	browser     *rod.Browser
	pageTimeout time.Duration
}

// NewBrowser connects to a running browser over the DevTools protocol.
// Connection failure is surfaced as ErrCapabilityUnavailable so
// adapters fail fast at construction instead of silently no-opping.
func NewBrowser(controlURL string, pageTimeout time.Duration) (*Browser, error) {
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: browser connect: %v", ErrCapabilityUnavailable, err)
	}
	log.Info().Str("controlUrl", controlURL).Msg("connected to browser")
	return &Browser{browser: browser, pageTimeout: pageTimeout}, nil
}

// LaunchBrowser starts a local browser and connects to it, for
// deployments without a dedicated browser service.
func LaunchBrowser(headless bool, pageTimeout time.Duration) (*Browser, error) {
	controlURL, err := launcher.New().Headless(headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: browser launch: %v", ErrCapabilityUnavailable, err)
	}
	return NewBrowser(controlURL, pageTimeout)
}

// Close disconnects from the browser.
func (b *Browser) Close() error {
	return b.browser.Close()
}

// PageTimeout is the upper bound applied to every page operation.
func (b *Browser) PageTimeout() time.Duration {
	return b.pageTimeout
}

// NewPage opens a fresh incognito page bound to ctx. The caller must
// Close the returned page.
func (b *Browser) NewPage(ctx context.Context) (*Page, error) {
	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("%w: incognito context: %v", ErrSiteUnavailable, err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: open page: %v", ErrSiteUnavailable, err)
	}
	return &Page{page: page.Context(ctx).Timeout(b.pageTimeout)}, nil
}

// Page wraps one browser tab with the small set of operations the
// adapters need. Every operation is bounded by the page timeout.
type Page struct {
	page *rod.Page
}

// Rod exposes the underlying page for jurisdiction-specific protocol
// calls that the shared surface does not cover.
func (p *Page) Rod() *rod.Page {
	return p.page
}

// Close releases the tab.
func (p *Page) Close() error {
	return p.page.Close()
}

// Navigate loads url and waits for the network to go almost idle, then
// for the DOM to stop changing.
func (p *Page) Navigate(url string) error {
	wait := p.page.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := p.page.Navigate(url); err != nil {
		return fmt.Errorf("%w: navigate %s: %v", ErrSiteUnavailable, url, err)
	}
	wait()
	if err := p.page.WaitStable(time.Second); err != nil {
		return fmt.Errorf("%w: wait stable: %v", ErrSiteUnavailable, err)
	}
	return nil
}

// FieldLocators is an ordered list of CSS selectors tried until one
// resolves to a visible element. Sites expose the same logical field
// under different markup across redesigns, so adapters declare every
// known variant.
type FieldLocators []string

// Find returns the first visible element matched by the locator chain.
func (p *Page) Find(locators FieldLocators) (*rod.Element, error) {
	for _, sel := range locators {
		elems, err := p.page.Elements(sel)
		if err != nil || elems.Empty() {
			continue
		}
		for _, el := range elems {
			if visible, err := el.Visible(); err == nil && visible {
				return el, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no visible element for %v", ErrFormNotFound, locators)
}

// Has reports whether any locator in the chain matches.
func (p *Page) Has(locators FieldLocators) bool {
	for _, sel := range locators {
		if has, _, err := p.page.Has(sel); err == nil && has {
			return true
		}
	}
	return false
}

// Fill clears a field and types value into it.
func (p *Page) Fill(locators FieldLocators, value string) error {
	el, err := p.Find(locators)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("%w: select text: %v", ErrFormNotFound, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("%w: input: %v", ErrFormNotFound, err)
	}
	return nil
}

// Click resolves the locator chain and performs a single left click.
func (p *Page) Click(locators FieldLocators) error {
	el, err := p.Find(locators)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("%w: click: %v", ErrFormNotFound, err)
	}
	return nil
}

// ClickByText clicks the first element matching selector whose text
// matches the regex pattern.
func (p *Page) ClickByText(selector, pattern string) error {
	el, err := p.page.ElementR(selector, pattern)
	if err != nil {
		return fmt.Errorf("%w: element %s matching %q: %v", ErrFormNotFound, selector, pattern, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("%w: click: %v", ErrFormNotFound, err)
	}
	return nil
}

// PressEnter submits the focused form.
func (p *Page) PressEnter() error {
	return p.page.Keyboard.Press(input.Enter)
}

// WaitVisible blocks until one of the locators resolves to a visible
// element or the page timeout expires.
func (p *Page) WaitVisible(locators FieldLocators) error {
	var lastErr error
	for _, sel := range locators {
		el, err := p.page.Element(sel)
		if err != nil {
			lastErr = err
			continue
		}
		if err := el.WaitVisible(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: waiting for %v: %v", ErrSiteUnavailable, locators, lastErr)
}

// Title returns the current page title.
func (p *Page) Title() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", fmt.Errorf("%w: page info: %v", ErrSiteUnavailable, err)
	}
	return info.Title, nil
}

// HTML returns the full rendered markup of the current page.
func (p *Page) HTML() (string, error) {
	html, err := p.page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: page html: %v", ErrSiteUnavailable, err)
	}
	return html, nil
}

// Eval runs a script on the page and returns its result serialized as
// JSON text.
func (p *Page) Eval(js string) (string, error) {
	res, err := p.page.Eval(js)
	if err != nil {
		return "", fmt.Errorf("%w: eval: %v", ErrParse, err)
	}
	return res.Value.JSON("", ""), nil
}

// BodyText returns the visible text of the document body, used by the
// challenge heuristics.
func (p *Page) BodyText() (string, error) {
	el, err := p.page.Element("body")
	if err != nil {
		return "", fmt.Errorf("%w: body element: %v", ErrSiteUnavailable, err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("%w: body text: %v", ErrSiteUnavailable, err)
	}
	return text, nil
}
