package driven

import (
	"context"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// Report is the session state handed to an Exporter.
type Report struct {
	Entries []domain.NumberEntry
	Groups  []domain.FinalizedGroup
	Summary domain.SessionSummary
}

// Exporter writes a session report to an external destination.
type Exporter interface {
	// Export writes report to dest, replacing any previous report there.
	Export(ctx context.Context, dest string, report Report) error
}
