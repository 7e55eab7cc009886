package driving

import (
	"context"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// SessionService is the single entry point for one interactive session:
// load numbers, search, and commit combinations into groups.
//
// Only one search or finalize runs at a time; a second concurrent call
// fails with domain.ErrSessionBusy.
type SessionService interface {
	// LoadNumbers replaces the pool. Blank and error cells are skipped;
	// malformed numeric text fails the whole load with domain.ErrInvalidInput.
	LoadNumbers(ctx context.Context, values []domain.RawValue, opts domain.LoadOptions) ([]domain.NumberEntry, error)

	// FindCombinations searches the available entries. Cancelling ctx stops
	// the search and returns the partial ResultSet with Cancelled set.
	FindCombinations(ctx context.Context, params domain.SearchParams, progress domain.ProgressFunc) (*domain.ResultSet, error)

	// FinalizeCombination commits the combination of the live ResultSet
	// backed by memberIDs into a new group.
	FinalizeCombination(ctx context.Context, memberIDs []domain.EntryID) (*domain.FinalizedGroup, error)

	// LiveResults returns the current ResultSet, already pruned of
	// combinations invalidated by finalization. Nil before any search.
	LiveResults() *domain.ResultSet

	// PoolSnapshot returns every entry ordered by source position.
	PoolSnapshot(ctx context.Context) ([]domain.NumberEntry, error)

	// FinalizedGroups returns groups in creation order.
	FinalizedGroups(ctx context.Context) ([]domain.FinalizedGroup, error)

	// Summary aggregates pool and group state.
	Summary(ctx context.Context) (domain.SessionSummary, error)
}

// ReportService exports the session state for external collaborators.
type ReportService interface {
	// Export writes the pool snapshot and finalized groups to dest.
	Export(ctx context.Context, dest string) error
}
