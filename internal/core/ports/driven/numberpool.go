package driven

import (
	"context"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// NumberPool holds the working set of entries and their availability.
// It is the single source of truth for entry state within a session.
type NumberPool interface {
	// Load replaces the pool with freshly parsed entries. Values are
	// rounded to precision decimal places. The load is all-or-nothing.
	Load(ctx context.Context, values []domain.RawValue, precision int) ([]domain.NumberEntry, error)

	// Available returns Available entries ordered by Position.
	Available(ctx context.Context) ([]domain.NumberEntry, error)

	// Get resolves ids. Returns domain.ErrNotFound if any id is unknown.
	Get(ctx context.Context, ids []domain.EntryID) ([]domain.NumberEntry, error)

	// MarkFinalized moves every id to Finalized under groupID.
	// Fails with domain.ErrAlreadyFinalized, changing nothing, if any id
	// is not currently Available.
	MarkFinalized(ctx context.Context, ids []domain.EntryID, groupID string) error

	// Snapshot returns every entry ordered by Position.
	Snapshot(ctx context.Context) ([]domain.NumberEntry, error)
}
