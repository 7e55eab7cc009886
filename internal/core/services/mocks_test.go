package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
)

// recordingMetrics captures observations for assertions.
type recordingMetrics struct {
	mu        sync.Mutex
	searches  []domain.SearchStats
	finalizes []int
}

func (m *recordingMetrics) ObserveSearch(stats domain.SearchStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, stats)
}

func (m *recordingMetrics) ObserveFinalize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalizes = append(m.finalizes, size)
}

// failingGroupStore fails every write.
type failingGroupStore struct {
	err error
}

func (s *failingGroupStore) Add(context.Context, domain.FinalizedGroup) error { return s.err }
func (s *failingGroupStore) List(context.Context) ([]domain.FinalizedGroup, error) {
	return nil, s.err
}
func (s *failingGroupStore) Remove(context.Context, string) error { return s.err }
func (s *failingGroupStore) Count(context.Context) (int, error)    { return 0, s.err }
func (s *failingGroupStore) Reset(context.Context) error          { return s.err }

// flakyGroupStore is a working memory store whose Add or Reset can be
// made to fail.
type flakyGroupStore struct {
	*memory.GroupStore
	addErr   error
	resetErr error
}

func (s *flakyGroupStore) Add(ctx context.Context, g domain.FinalizedGroup) error {
	if s.addErr != nil {
		return s.addErr
	}
	return s.GroupStore.Add(ctx, g)
}

func (s *flakyGroupStore) Reset(ctx context.Context) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	return s.GroupStore.Reset(ctx)
}

// markFailingPool is a memory pool whose MarkFinalized always fails.
type markFailingPool struct {
	*memory.NumberPool
	err error
}

func (p *markFailingPool) MarkFinalized(context.Context, []domain.EntryID, string) error {
	return p.err
}

// recordingExporter keeps the last report.
type recordingExporter struct {
	dest   string
	report driven.Report
	err    error
}

func (e *recordingExporter) Export(_ context.Context, dest string, report driven.Report) error {
	if e.err != nil {
		return e.err
	}
	e.dest = dest
	e.report = report
	return nil
}

var errStoreDown = errors.New("store down")
