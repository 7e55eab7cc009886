package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/combimatch-cli/internal/logger"
)

// FinalizationManager commits combinations into groups.
// Finalization is irreversible; there is no way to reopen a group.
//
// It does not serialise callers itself. Session holds the exclusive
// section around every call.
type FinalizationManager struct {
	pool    driven.NumberPool
	groups  driven.GroupStore
	metrics driven.Metrics
	newID   func() string
}

// NewFinalizationManager creates a finalization manager. metrics may be nil.
func NewFinalizationManager(pool driven.NumberPool, groups driven.GroupStore, metrics driven.Metrics) *FinalizationManager {
	return &FinalizationManager{
		pool:    pool,
		groups:  groups,
		metrics: metrics,
		newID:   uuid.NewString,
	}
}

// Finalize commits selected as a new group and returns it along with
// results pruned of every combination sharing a member with it.
//
// Every member must still be Available; otherwise a *domain.SelectionError
// wrapping domain.ErrStaleSelection is returned and nothing changes.
func (m *FinalizationManager) Finalize(
	ctx context.Context,
	selected domain.Combination,
	results *domain.ResultSet,
) (*domain.FinalizedGroup, *domain.ResultSet, error) {
	logger.Section("Finalize Combination")

	if selected.Size() == 0 {
		return nil, results, &domain.ParameterError{Field: "combination", Reason: "must have at least one member"}
	}

	members, err := m.pool.Get(ctx, selected.MemberIDs)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, results, &domain.SelectionError{Kind: domain.ErrStaleSelection, IDs: selected.MemberIDs}
		}
		return nil, results, fmt.Errorf("resolve members: %w", err)
	}

	var stale []domain.EntryID
	for _, e := range members {
		if !e.IsAvailable() {
			stale = append(stale, e.ID)
		}
	}
	if len(stale) > 0 {
		logger.Warn("Stale selection, entries already finalized: %v", stale)
		return nil, results, &domain.SelectionError{Kind: domain.ErrStaleSelection, IDs: stale}
	}

	seq, err := m.groups.Count(ctx)
	if err != nil {
		return nil, results, fmt.Errorf("count groups: %w", err)
	}

	// Recompute from the pool rather than trusting the snapshot.
	combo := domain.NewCombination(members, selected.Target, selected.Tolerance)
	group := domain.FinalizedGroup{
		ID:        m.newID(),
		Seq:       seq,
		Color:     domain.ColorForSequence(seq),
		MemberIDs: combo.MemberIDs,
		Values:    combo.Values,
		Sum:       combo.Sum,
	}

	// Add before marking: a group can be withdrawn, marked entries cannot.
	if err := m.groups.Add(ctx, group); err != nil {
		return nil, results, fmt.Errorf("store group: %w", err)
	}
	if err := m.pool.MarkFinalized(ctx, group.MemberIDs, group.ID); err != nil {
		if rerr := m.groups.Remove(ctx, group.ID); rerr != nil {
			logger.Warn("Could not remove group %s after failed mark: %v", group.ID, rerr)
		}
		return nil, results, fmt.Errorf("mark finalized: %w", err)
	}

	pruned := results.Invalidate(domain.NewIDSet(group.MemberIDs...))

	if m.metrics != nil {
		m.metrics.ObserveFinalize(group.Size())
	}
	logger.Info("Group %d (%s) finalized: %s, %d results remain",
		group.Seq+1, group.Color.Name, combo, pruned.Len())

	return &group, pruned, nil
}
