package courts

import (
	"context"
	"errors"
)

// Adapter failure conditions. Each terminates the current attempt; the
// retrier decides which conditions warrant another attempt.
var (
	// ErrSiteUnavailable covers network failures and page timeouts.
	ErrSiteUnavailable = errors.New("court site unavailable")

	// ErrChallengeBlocked means an anti-bot challenge could not be
	// cleared after the evasion attempts.
	ErrChallengeBlocked = errors.New("blocked by anti-bot challenge")

	// ErrFormNotFound means the search form's required fields could
	// not be located, usually because the site structure changed.
	ErrFormNotFound = errors.New("search form not found")

	// ErrAuthFailed means a login step did not produce a session.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrParse means the results page loaded but its structure could
	// not be interpreted.
	ErrParse = errors.New("failed to parse results")

	// ErrCapabilityUnavailable means a required external capability,
	// such as the browser, was absent at adapter construction.
	ErrCapabilityUnavailable = errors.New("capability unavailable")
)

// Retryable reports whether an attempt failure warrants another
// attempt. Only unresolved challenges and timeouts qualify; structural
// failures like a missing form will not improve with a retry.
func Retryable(err error) bool {
	return errors.Is(err, ErrChallengeBlocked) ||
		errors.Is(err, ErrSiteUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}
