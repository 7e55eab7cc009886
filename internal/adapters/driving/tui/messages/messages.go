// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// TargetSubmitted is sent when the user confirms a new target.
type TargetSubmitted struct {
	Target domain.Amount
}

// SearchStarted reports that a search is running in the background.
type SearchStarted struct {
	Params domain.SearchParams
}

// SearchProgressed carries a progress snapshot. Updates is the channel
// the next snapshot will arrive on.
type SearchProgressed struct {
	Progress domain.SearchProgress
	Updates  <-chan domain.SearchProgress
}

// SearchCompleted carries search results back to the model.
// Results may be partial when Results.Cancelled is set.
type SearchCompleted struct {
	Results *domain.ResultSet
	Err     error
}

// CombinationFinalized carries the outcome of a finalize together with
// the session state after it.
type CombinationFinalized struct {
	Group   *domain.FinalizedGroup
	Results *domain.ResultSet
	Groups  []domain.FinalizedGroup
	Summary domain.SessionSummary
	Err     error
}

// SessionRefreshed carries pool state read outside a search or finalize.
type SessionRefreshed struct {
	Groups  []domain.FinalizedGroup
	Summary domain.SessionSummary
	Err     error
}

// ErrorOccurred is sent when an error needs to be shown.
type ErrorOccurred struct {
	Err error
}
