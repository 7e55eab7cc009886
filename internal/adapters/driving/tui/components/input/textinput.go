// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// TargetInput edits the target sum.
type TargetInput struct {
	textinput textinput.Model
	styles    *styles.Styles
}

// NewTargetInput creates a new target input component.
func NewTargetInput(s *styles.Styles) *TargetInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "e.g. 1250.00"
	ti.CharLimit = 32
	ti.Width = 20
	// The app does not route blink ticks back to the input.
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &TargetInput{
		textinput: ti,
		styles:    s,
	}
}

// Update handles input messages.
func (t *TargetInput) Update(msg tea.Msg) (*TargetInput, tea.Cmd) {
	var cmd tea.Cmd
	t.textinput, cmd = t.textinput.Update(msg)
	return t, cmd
}

// View renders the target input.
func (t *TargetInput) View() string {
	label := t.styles.Title.Render("Target: ")
	field := t.styles.InputField.Render(t.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Amount parses the current value.
func (t *TargetInput) Amount() (domain.Amount, error) {
	text := strings.TrimSpace(t.textinput.Value())
	if text == "" {
		return 0, &domain.ParameterError{Field: "target", Reason: "must not be empty"}
	}
	a, err := domain.ParseAmount(text)
	if err != nil {
		return 0, &domain.ParameterError{Field: "target", Reason: err.Error()}
	}
	return a, nil
}

// Value returns the current input value.
func (t *TargetInput) Value() string {
	return t.textinput.Value()
}

// SetValue sets the input value.
func (t *TargetInput) SetValue(value string) {
	t.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (t *TargetInput) Focus() tea.Cmd {
	return t.textinput.Focus()
}

// Blur removes focus from the input.
func (t *TargetInput) Blur() {
	t.textinput.Blur()
}

// Focused returns whether the input is focused.
func (t *TargetInput) Focused() bool {
	return t.textinput.Focused()
}
