package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
)

// Ensure GroupStore implements the interface.
var _ driven.GroupStore = (*GroupStore)(nil)

// GroupStore is an in-memory implementation of driven.GroupStore.
type GroupStore struct {
	mu     sync.RWMutex
	groups []domain.FinalizedGroup
}

// NewGroupStore creates a new in-memory group store.
func NewGroupStore() *GroupStore {
	return &GroupStore{}
}

// Add appends a group.
func (s *GroupStore) Add(_ context.Context, group domain.FinalizedGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append(s.groups, group)
	return nil
}

// Remove drops the group with id, keeping the order of the rest.
func (s *GroupStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = slices.DeleteFunc(s.groups, func(g domain.FinalizedGroup) bool {
		return g.ID == id
	})
	return nil
}

// List returns all groups in creation order.
func (s *GroupStore) List(_ context.Context) ([]domain.FinalizedGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.FinalizedGroup, len(s.groups))
	copy(result, s.groups)
	return result, nil
}

// Count returns the number of groups.
func (s *GroupStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups), nil
}

// Reset discards every group.
func (s *GroupStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = nil
	return nil
}
