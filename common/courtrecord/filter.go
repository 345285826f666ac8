package courtrecord

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// CaseAgeLimitYears bounds how far back filing dates are considered
// relevant for due diligence.
const CaseAgeLimitYears = 5

// FilterSort applies the shared relevance pipeline to a batch of
// normalized cases and orders the survivors. The reference time is
// injected so cutoff behavior is reproducible in tests.
//
// Pipeline, in order: excluded case types are dropped, then cases
// whose filing date parses and falls before now minus the age limit,
// then cases whose parties do not match the searched name. Unknown
// filing dates survive the age cutoff.
func FilterSort(cases []CourtCase, criteria SearchCriteria, now time.Time) []CourtCase {
	cutoff := now.AddDate(-CaseAgeLimitYears, 0, 0)

	kept := lo.Filter(cases, func(c CourtCase, _ int) bool {
		if lo.Contains(ExcludedCaseTypes, c.CaseType) {
			return false
		}
		if filed, ok := ParseDate(c.FilingDate).Get(); ok && filed.Before(cutoff) {
			return false
		}
		return matchesName(c.Parties, criteria)
	})

	// Open cases first, newest filing first within each bucket.
	// Unparseable dates sort as if filed today. Stable so equal keys
	// keep their per-jurisdiction order.
	sort.SliceStable(kept, func(i, j int) bool {
		ri, ti := sortKey(kept[i], now)
		rj, tj := sortKey(kept[j], now)
		if ri != rj {
			return ri < rj
		}
		return ti.After(tj)
	})
	return kept
}

func sortKey(c CourtCase, now time.Time) (int, time.Time) {
	rank := 1
	if c.IsOpen() {
		rank = 0
	}
	filed := ParseDate(c.FilingDate).OrElse(now)
	return rank, filed
}

// matchesName requires the last name to appear in the parties text,
// plus either the first name, a first-initial pattern ("J. Smith" or
// "J Smith"), or the middle name when one was supplied.
func matchesName(parties string, criteria SearchCriteria) bool {
	haystack := strings.ToUpper(parties)
	first := strings.ToUpper(strings.TrimSpace(criteria.FirstName))
	last := strings.ToUpper(strings.TrimSpace(criteria.LastName))
	middle := strings.ToUpper(strings.TrimSpace(criteria.MiddleName))

	if last == "" || !strings.Contains(haystack, last) {
		return false
	}
	if first != "" {
		if strings.Contains(haystack, first) {
			return true
		}
		// The initial is the first rune, not the first byte, so
		// accented names still form a valid pattern.
		initial := string([]rune(first)[0])
		if strings.Contains(haystack, initial+". "+last) || strings.Contains(haystack, initial+" "+last) {
			return true
		}
	}
	if middle != "" && strings.Contains(haystack, middle) {
		return true
	}
	return false
}
