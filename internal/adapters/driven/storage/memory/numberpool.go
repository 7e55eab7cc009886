package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
)

// Ensure NumberPool implements the interface.
var _ driven.NumberPool = (*NumberPool)(nil)

// NumberPool is an in-memory implementation of driven.NumberPool.
//
// Entry ids keep increasing across loads, so an id handed out before a
// reload never resolves afterwards.
type NumberPool struct {
	mu      sync.RWMutex
	entries []domain.NumberEntry
	index   map[domain.EntryID]int
	nextID  domain.EntryID
}

// NewNumberPool creates an empty pool.
func NewNumberPool() *NumberPool {
	return &NumberPool{
		index:  make(map[domain.EntryID]int),
		nextID: 1,
	}
}

// Load replaces the pool with the parsed values.
// Blank and error cells are skipped; the first malformed value fails the
// whole load and leaves the previous pool in place. So does a load whose
// positive or negative total passes domain.MaxPoolMagnitude.
func (p *NumberPool) Load(_ context.Context, values []domain.RawValue, precision int) ([]domain.NumberEntry, error) {
	parsed := make([]domain.Amount, 0, len(values))
	kept := make([]domain.RawValue, 0, len(values))
	var totals domain.PoolTotals
	for i, raw := range values {
		if raw.Kind.Skipped() || strings.TrimSpace(raw.Text) == "" {
			continue
		}
		amount, err := domain.ParseAmount(raw.Text)
		if err != nil {
			return nil, &domain.InvalidInputError{Position: i, Text: raw.Text, Source: raw.Source, Err: err}
		}
		amount = amount.Round(precision)
		if err := totals.Add(amount); err != nil {
			return nil, &domain.InvalidInputError{Position: i, Text: raw.Text, Source: raw.Source, Err: err}
		}
		parsed = append(parsed, amount)
		kept = append(kept, raw)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = make([]domain.NumberEntry, len(parsed))
	p.index = make(map[domain.EntryID]int, len(parsed))
	for i, amount := range parsed {
		id := p.nextID
		p.nextID++
		p.entries[i] = domain.NumberEntry{
			ID:       id,
			Value:    amount,
			Position: i,
			Status:   domain.StatusAvailable,
			Source:   kept[i].Source,
		}
		p.index[id] = i
	}
	return slices.Clone(p.entries), nil
}

// Available returns Available entries ordered by Position.
func (p *NumberPool) Available(_ context.Context) ([]domain.NumberEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make([]domain.NumberEntry, 0, len(p.entries))
	for _, e := range p.entries {
		if e.IsAvailable() {
			result = append(result, e)
		}
	}
	return result, nil
}

// Get resolves ids in the order given.
func (p *NumberPool) Get(_ context.Context, ids []domain.EntryID) ([]domain.NumberEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make([]domain.NumberEntry, 0, len(ids))
	for _, id := range ids {
		i, ok := p.index[id]
		if !ok {
			return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
		}
		result = append(result, p.entries[i])
	}
	return result, nil
}

// MarkFinalized moves every id to Finalized, or none of them.
func (p *NumberPool) MarkFinalized(_ context.Context, ids []domain.EntryID, groupID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var taken []domain.EntryID
	seen := make(domain.IDSet, len(ids))
	for _, id := range ids {
		i, ok := p.index[id]
		if !ok {
			return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
		}
		if !p.entries[i].IsAvailable() || seen.Has(id) {
			taken = append(taken, id)
		}
		seen[id] = struct{}{}
	}
	if len(taken) > 0 {
		return &domain.SelectionError{Kind: domain.ErrAlreadyFinalized, IDs: taken}
	}

	for _, id := range ids {
		e := &p.entries[p.index[id]]
		e.Status = domain.StatusFinalized
		e.GroupID = groupID
	}
	return nil
}

// Snapshot returns a copy of every entry ordered by Position.
func (p *NumberPool) Snapshot(_ context.Context) ([]domain.NumberEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.entries), nil
}
