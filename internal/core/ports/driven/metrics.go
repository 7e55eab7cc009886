package driven

import "github.com/custodia-labs/combimatch-cli/internal/core/domain"

// Metrics records operational statistics. Implementations must be safe
// for concurrent use.
type Metrics interface {
	// ObserveSearch records a finished or cancelled search.
	ObserveSearch(stats domain.SearchStats)

	// ObserveFinalize records a finalized group of the given size.
	ObserveFinalize(size int)
}
