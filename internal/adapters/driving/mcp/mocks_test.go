package mcp

import (
	"context"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driving"
)

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	entries  []domain.NumberEntry
	results  *domain.ResultSet
	group    *domain.FinalizedGroup
	groups   []domain.FinalizedGroup
	err      error
	loadOpts domain.LoadOptions
	loaded   []domain.RawValue
	params   domain.SearchParams
	ids      []domain.EntryID
}

var _ driving.SessionService = (*mockSessionService)(nil)

func (m *mockSessionService) LoadNumbers(
	_ context.Context,
	values []domain.RawValue,
	opts domain.LoadOptions,
) ([]domain.NumberEntry, error) {
	m.loaded = values
	m.loadOpts = opts
	return m.entries, m.err
}

func (m *mockSessionService) FindCombinations(
	_ context.Context,
	params domain.SearchParams,
	_ domain.ProgressFunc,
) (*domain.ResultSet, error) {
	m.params = params
	return m.results, m.err
}

func (m *mockSessionService) FinalizeCombination(
	_ context.Context,
	ids []domain.EntryID,
) (*domain.FinalizedGroup, error) {
	m.ids = ids
	return m.group, m.err
}

func (m *mockSessionService) LiveResults() *domain.ResultSet {
	return m.results
}

func (m *mockSessionService) PoolSnapshot(_ context.Context) ([]domain.NumberEntry, error) {
	return m.entries, m.err
}

func (m *mockSessionService) FinalizedGroups(_ context.Context) ([]domain.FinalizedGroup, error) {
	return m.groups, m.err
}

func (m *mockSessionService) Summary(_ context.Context) (domain.SessionSummary, error) {
	return domain.Summarize(m.entries, m.groups), m.err
}

// mockReportService is a mock implementation of driving.ReportService.
type mockReportService struct {
	dest string
	err  error
}

func (m *mockReportService) Export(_ context.Context, dest string) error {
	m.dest = dest
	return m.err
}
