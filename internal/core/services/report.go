package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/combimatch-cli/internal/logger"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ErrExportUnavailable is returned when no exporter is configured.
var ErrExportUnavailable = errors.New("export unavailable")

// ReportService hands session snapshots to an Exporter.
type ReportService struct {
	session  driving.SessionService
	exporter driven.Exporter
}

// NewReportService creates a report service. exporter may be nil.
func NewReportService(session driving.SessionService, exporter driven.Exporter) *ReportService {
	return &ReportService{session: session, exporter: exporter}
}

// Export writes the pool snapshot and finalized groups to dest.
func (r *ReportService) Export(ctx context.Context, dest string) error {
	if r.exporter == nil {
		return ErrExportUnavailable
	}

	entries, err := r.session.PoolSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot pool: %w", err)
	}
	groups, err := r.session.FinalizedGroups(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}
	summary, err := r.session.Summary(ctx)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	report := driven.Report{Entries: entries, Groups: groups, Summary: summary}
	if err := r.exporter.Export(ctx, dest, report); err != nil {
		return fmt.Errorf("export to %s: %w", dest, err)
	}
	logger.Info("Exported %d entries and %d groups to %s", len(entries), len(groups), dest)
	return nil
}
