package driven

import (
	"context"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// GroupStore keeps finalized groups in creation order.
// Groups are append-only; Remove exists only to undo an Add whose
// finalization could not complete.
type GroupStore interface {
	// Add appends a group.
	Add(ctx context.Context, group domain.FinalizedGroup) error

	// Remove deletes the group with id. Unknown ids are not an error.
	Remove(ctx context.Context, id string) error

	// List returns all groups in creation order.
	List(ctx context.Context) ([]domain.FinalizedGroup, error)

	// Count returns the number of groups created so far.
	Count(ctx context.Context) (int, error)

	// Reset discards every group. Only used when a new session starts.
	Reset(ctx context.Context) error
}
