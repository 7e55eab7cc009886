package mcp

import (
	"net/http"

	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Session runs loads, searches and finalizations.
	Session driving.SessionService

	// Settings supplies search and input defaults. Optional.
	Settings driving.SettingsService

	// Report enables the export_report tool. Optional.
	Report driving.ReportService

	// Metrics is served on /metrics in HTTP mode. Optional.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
