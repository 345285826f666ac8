package common

import (
	"errors"
)

// Common error constants
var (
	// ErrJobNotFound is returned when a search job id is unknown
	ErrJobNotFound = errors.New("search job not found")

	// ErrJobNotReady is returned when results are requested before a
	// search job has completed
	ErrJobNotReady = errors.New("search job not complete")

	// ErrSearchFailed is returned when a search run fails outright
	ErrSearchFailed = errors.New("search failed")
)
