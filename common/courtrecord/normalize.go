package courtrecord

import (
	"strings"
	"time"

	"github.com/samber/mo"
)

// canonicalDateLayout is the single representation every parseable
// filing date is normalized into.
const canonicalDateLayout = "01/02/2006"

// dateLayouts are the site-specific date representations seen across
// jurisdictions. Checked in order; first successful parse wins.
var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// ParseDate attempts to parse a raw site date. Empty strings and the
// UnknownDate sentinel yield None. Dash-separated numeric dates such as
// Broward's MM-DD-YYYY are retried with slashes before giving up.
func ParseDate(raw string) mo.Option[time.Time] {
	s := strings.TrimSpace(raw)
	if s == "" || s == UnknownDate {
		return mo.None[time.Time]()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return mo.Some(t)
		}
	}
	if strings.Contains(s, "-") {
		return ParseDate(strings.ReplaceAll(s, "-", "/"))
	}
	return mo.None[time.Time]()
}

// NormalizeDate converts a raw site date into the canonical MM/DD/YYYY
// representation. Unparseable dates become UnknownDate rather than
// being dropped.
func NormalizeDate(raw string) string {
	if t, ok := ParseDate(raw).Get(); ok {
		return t.Format(canonicalDateLayout)
	}
	return UnknownDate
}

// openStatusWords and closedStatusWords drive the keyword bucketing in
// NormalizeStatus. Matching is case-insensitive substring.
var (
	closedStatusWords = []string{"CLOSED", "DISPOSED"}
	openStatusWords   = []string{"OPEN", "ACTIVE", "PENDING"}
)

// NormalizeStatus buckets raw status text into the canonical status
// set. Text matching neither bucket is passed through title-cased so
// site-specific vocabulary like "Decided" stays visible.
func NormalizeStatus(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StatusUnknown
	}
	upper := strings.ToUpper(s)
	for _, w := range closedStatusWords {
		if strings.Contains(upper, w) {
			return StatusClosed
		}
	}
	for _, w := range openStatusWords {
		if strings.Contains(upper, w) {
			return StatusOpen
		}
	}
	return titleCase(s)
}

// IsOpenStatus reports whether a status string counts as current legal
// exposure for summary counting and sort ordering.
func IsOpenStatus(status string) bool {
	upper := strings.ToUpper(strings.TrimSpace(status))
	for _, w := range openStatusWords {
		if upper == w {
			return true
		}
	}
	return false
}

// CleanText collapses runs of whitespace into single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
