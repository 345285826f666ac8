package courts

import (
	"context"

	"github.com/lendingdesk/court-search-service/common/courtrecord"
)

// Adapter searches one jurisdiction's public records site. A failed
// attempt returns no cases and an error, never a partial batch.
// Implementations normalize every record before returning it.
type Adapter interface {
	// Jurisdiction returns the display name, e.g. "Broward County, FL".
	Jurisdiction() string

	Search(ctx context.Context, criteria courtrecord.SearchCriteria) ([]courtrecord.CourtCase, error)
}

// Snapshotter is implemented by adapters that capture the raw results
// page. The orchestrator archives the snapshot as evidence when one is
// available.
type Snapshotter interface {
	// Snapshot returns the last captured page HTML, if any.
	Snapshot() (string, bool)
}
