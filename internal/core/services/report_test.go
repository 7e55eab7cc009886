package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

func TestReportService_Export(t *testing.T) {
	s := newTestSession()
	ctx := context.Background()
	loadExample(t, s)
	rs, err := s.FindCombinations(ctx, params("50", "0", 1, 3, 10), nil)
	require.NoError(t, err)
	_, err = s.FinalizeCombination(ctx, rs.Exact[0].MemberIDs)
	require.NoError(t, err)

	exporter := &recordingExporter{}
	report := NewReportService(s, exporter)

	require.NoError(t, report.Export(ctx, "out.db"))

	assert.Equal(t, "out.db", exporter.dest)
	assert.Len(t, exporter.report.Entries, 5)
	assert.Len(t, exporter.report.Groups, 1)
	assert.Equal(t, 1, exporter.report.Summary.Groups)
	assert.Equal(t, 2, exporter.report.Summary.FinalizedEntries)
}

func TestReportService_NoExporter(t *testing.T) {
	report := NewReportService(newTestSession(), nil)

	err := report.Export(context.Background(), "out.db")

	assert.ErrorIs(t, err, ErrExportUnavailable)
}

func TestReportService_ExporterError(t *testing.T) {
	report := NewReportService(newTestSession(), &recordingExporter{err: errStoreDown})

	err := report.Export(context.Background(), "out.db")

	assert.ErrorIs(t, err, errStoreDown)
	assert.Contains(t, err.Error(), "out.db")
}

func TestReportService_EmptySession(t *testing.T) {
	exporter := &recordingExporter{}
	report := NewReportService(newTestSession(), exporter)

	require.NoError(t, report.Export(context.Background(), "empty.db"))

	assert.Empty(t, exporter.report.Entries)
	assert.Equal(t, domain.SessionSummary{}, exporter.report.Summary)
}
