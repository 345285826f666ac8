package courts

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/samber/lo"
)

// Evasion countermeasures for sites running active bot detection. All
// of it is best effort: randomized identity, human-paced input, and
// heuristic challenge detection that can both over- and under-trigger.

// Fingerprint is one randomized client identity, applied per attempt.
type Fingerprint struct {
	Width     int
	Height    int
	UserAgent string
}

var viewportPool = []Fingerprint{
	{Width: 1920, Height: 1080},
	{Width: 1366, Height: 768},
	{Width: 1536, Height: 864},
	{Width: 1440, Height: 900},
}

var userAgentPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// RandomFingerprint picks a viewport and user agent from the pools.
func RandomFingerprint() Fingerprint {
	fp := lo.Sample(viewportPool)
	fp.UserAgent = lo.Sample(userAgentPool)
	return fp
}

// ApplyFingerprint overrides the page's device metrics and user agent.
func ApplyFingerprint(p *Page, fp Fingerprint) error {
	err := (&proto.EmulationSetDeviceMetricsOverride{
		Width:             fp.Width,
		Height:            fp.Height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}).Call(p.Rod())
	if err != nil {
		return err
	}
	return (&proto.NetworkSetUserAgentOverride{
		UserAgent: fp.UserAgent,
	}).Call(p.Rod())
}

// Pause sleeps a random duration within [min, max], honoring ctx.
func Pause(ctx context.Context, min, max time.Duration) error {
	d := min + time.Duration(rand.Int63n(int64(max-min)+1))
	return sleepCtx(ctx, d)
}

// MouseJitter moves the pointer through a few random points the way a
// reading human would.
func MouseJitter(p *Page, fp Fingerprint) {
	points := 3 + rand.Intn(3)
	for i := 0; i < points; i++ {
		target := proto.Point{
			X: float64(100 + rand.Intn(fp.Width-200)),
			Y: float64(100 + rand.Intn(fp.Height-200)),
		}
		// Ignore pointer errors, jitter is cosmetic.
		_ = p.Rod().Mouse.MoveLinear(target, 5+rand.Intn(11))
	}
}

// ScrollJitter scrolls down a random amount and sometimes part of the
// way back up.
func ScrollJitter(p *Page) {
	_ = p.Rod().Mouse.Scroll(0, float64(50+rand.Intn(251)), 5)
	if rand.Float64() < 0.3 {
		_ = p.Rod().Mouse.Scroll(0, -float64(20+rand.Intn(81)), 5)
	}
}

// HumanType fills a form field one character at a time with randomized
// inter-character delay.
func HumanType(ctx context.Context, p *Page, locators FieldLocators, value string) error {
	el, err := p.Find(locators)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	for _, r := range value {
		if err := p.Rod().InsertText(string(r)); err != nil {
			return err
		}
		if err := Pause(ctx, 80*time.Millisecond, 150*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

// Challenge heuristics. Interstitial pages are recognized by their
// title, a known challenge widget in the DOM, or telltale body text.
var (
	challengeTitles = []string{"just a moment"}

	challengePhrases = []string{
		"checking your browser",
		"verify you are human",
	}

	challengeWidgets = FieldLocators{
		"iframe[src*='challenges.cloudflare.com']",
		"div.cf-turnstile",
		"div[id*='turnstile']",
	}
)

// DetectChallengeContent reports whether a page title and body text
// look like a bot-detection interstitial. Pure so the heuristics are
// testable without a browser.
func DetectChallengeContent(title, bodyText string) bool {
	lowerTitle := strings.ToLower(title)
	for _, t := range challengeTitles {
		if strings.Contains(lowerTitle, t) {
			return true
		}
	}
	lowerBody := strings.ToLower(bodyText)
	for _, phrase := range challengePhrases {
		if strings.Contains(lowerBody, phrase) {
			return true
		}
	}
	return false
}

// PageChallenged combines the DOM widget check with the content
// heuristics against the live page.
func PageChallenged(p *Page) bool {
	if p.Has(challengeWidgets) {
		return true
	}
	title, err := p.Title()
	if err != nil {
		return false
	}
	body, err := p.BodyText()
	if err != nil {
		body = ""
	}
	return DetectChallengeContent(title, body)
}
