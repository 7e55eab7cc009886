package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/combimatch-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Session owns the pool, the finalized groups and the live ResultSet of
// one interactive session.
//
// Loads, searches and finalizes run inside a single exclusive section.
// A call that finds it taken fails fast with domain.ErrSessionBusy rather
// than queueing. Reads never wait on a running search.
type Session struct {
	pool      driven.NumberPool
	groups    driven.GroupStore
	engine    *SearchEngine
	finalizer *FinalizationManager

	exclusive sync.Mutex

	mu   sync.RWMutex
	live *domain.ResultSet
}

// NewSession creates a session over the given stores.
func NewSession(
	pool driven.NumberPool,
	groups driven.GroupStore,
	engine *SearchEngine,
	finalizer *FinalizationManager,
) *Session {
	return &Session{
		pool:      pool,
		groups:    groups,
		engine:    engine,
		finalizer: finalizer,
	}
}

// LoadNumbers replaces the pool.
func (s *Session) LoadNumbers(
	ctx context.Context,
	values []domain.RawValue,
	opts domain.LoadOptions,
) ([]domain.NumberEntry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !s.exclusive.TryLock() {
		return nil, domain.ErrSessionBusy
	}
	defer s.exclusive.Unlock()

	logger.Section("Load Numbers")

	count, err := s.groups.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count groups: %w", err)
	}
	if count > 0 && !opts.NewSession {
		return nil, fmt.Errorf("%d groups exist, start a new session to reload: %w", count, domain.ErrSessionHasGroups)
	}

	// Groups are cleared before the pool is replaced and put back if the
	// load fails, so groups never outlive the entries they reference.
	var previous []domain.FinalizedGroup
	if opts.NewSession && count > 0 {
		if previous, err = s.groups.List(ctx); err != nil {
			return nil, fmt.Errorf("list groups: %w", err)
		}
		if err := s.groups.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset groups: %w", err)
		}
	}

	entries, err := s.pool.Load(ctx, values, opts.Precision)
	if err != nil {
		s.restoreGroups(ctx, previous)
		return nil, err
	}
	if previous != nil {
		logger.Debug("New session, %d groups discarded", len(previous))
	}
	s.setLive(nil)

	logger.Info("Loaded %d entries from %d raw values", len(entries), len(values))
	return entries, nil
}

// restoreGroups re-adds groups dropped by a new session whose load failed.
func (s *Session) restoreGroups(ctx context.Context, groups []domain.FinalizedGroup) {
	for _, g := range groups {
		if err := s.groups.Add(ctx, g); err != nil {
			logger.Warn("Could not restore group %d after failed load: %v", g.Seq+1, err)
			return
		}
	}
}

// FindCombinations validates params and searches the available entries.
// The result becomes the live ResultSet, even when cancelled.
func (s *Session) FindCombinations(
	ctx context.Context,
	params domain.SearchParams,
	progress domain.ProgressFunc,
) (*domain.ResultSet, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !s.exclusive.TryLock() {
		return nil, domain.ErrSessionBusy
	}
	defer s.exclusive.Unlock()

	available, err := s.pool.Available(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available: %w", err)
	}

	results, err := s.engine.Search(ctx, available, params, progress)
	if err != nil {
		return nil, err
	}
	s.setLive(results)
	return results, nil
}

// FinalizeCombination commits the live combination backed by memberIDs.
// A combination that is not in the live ResultSet, because it was never
// found or has been invalidated since, is a stale selection.
func (s *Session) FinalizeCombination(ctx context.Context, memberIDs []domain.EntryID) (*domain.FinalizedGroup, error) {
	if !s.exclusive.TryLock() {
		return nil, domain.ErrSessionBusy
	}
	defer s.exclusive.Unlock()

	live := s.LiveResults()
	selected, ok := live.Find(memberIDs)
	if !ok {
		return nil, &domain.SelectionError{Kind: domain.ErrStaleSelection, IDs: memberIDs}
	}

	group, pruned, err := s.finalizer.Finalize(ctx, selected, live)
	if err != nil {
		return nil, err
	}
	s.setLive(pruned)
	return group, nil
}

// LiveResults returns the current ResultSet. Callers must not modify it.
func (s *Session) LiveResults() *domain.ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// PoolSnapshot returns every entry ordered by source position.
func (s *Session) PoolSnapshot(ctx context.Context) ([]domain.NumberEntry, error) {
	return s.pool.Snapshot(ctx)
}

// FinalizedGroups returns groups in creation order.
func (s *Session) FinalizedGroups(ctx context.Context) ([]domain.FinalizedGroup, error) {
	return s.groups.List(ctx)
}

// Summary aggregates pool and group state.
func (s *Session) Summary(ctx context.Context) (domain.SessionSummary, error) {
	entries, err := s.pool.Snapshot(ctx)
	if err != nil {
		return domain.SessionSummary{}, fmt.Errorf("snapshot pool: %w", err)
	}
	groups, err := s.groups.List(ctx)
	if err != nil {
		return domain.SessionSummary{}, fmt.Errorf("list groups: %w", err)
	}
	return domain.Summarize(entries, groups), nil
}

func (s *Session) setLive(rs *domain.ResultSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = rs
}
