// Package status renders the one-line bar at the bottom of the TUI.
package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/styles"
)

// State is what the app is doing, as far as the bar cares.
type State string

const (
	StateReady     State = "ready"
	StateEditing   State = "editing"
	StateSearching State = "searching"
	StateResults   State = "results"
	StateError     State = "error"
)

// hintModes maps each state to its key hints. Missing states use the
// idle set.
var hintModes = map[State]keymap.Mode{
	StateEditing:   keymap.ModeEditing,
	StateSearching: keymap.ModeSearching,
	StateResults:   keymap.ModeResults,
}

// Bar shows a status message on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	nodes   int64
	found   int
	width   int
}

// NewBar creates a bar in the ready state. Nil arguments fall back to
// the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the bar padded to its width. The message wins over the
// hints when both do not fit.
func (s *Bar) View() string {
	left := s.status()
	right := s.styles.Muted.Render(keymap.Hints(s.keymap.For(hintModes[s.state])))

	inner := max(s.width-s.styles.StatusBar.GetHorizontalFrameSize(), 0)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = 0
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), right)
	return s.styles.StatusBar.Width(s.width).Render(line)
}

func (s *Bar) status() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render(fmt.Sprintf("Searching... %d nodes, %d found", s.nodes, s.found))
	case StateEditing:
		return s.styles.Normal.Render("Enter a target")
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) SetState(state State)      { s.state = state }
func (s *Bar) State() State              { return s.state }
func (s *Bar) SetMessage(message string) { s.message = message }
func (s *Bar) Message() string           { return s.message }
func (s *Bar) SetWidth(width int)        { s.width = width }

// SetProgress records the running search's counters.
func (s *Bar) SetProgress(nodes int64, found int) {
	s.nodes, s.found = nodes, found
}

// Clear returns to the ready state and drops message and counters.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.nodes, s.found = 0, 0
}
