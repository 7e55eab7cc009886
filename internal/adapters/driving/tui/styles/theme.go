// Package styles holds the TUI palette and the lipgloss styles built
// from it.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// Theme is a palette. Exact and Approximate colour result rows; group
// colours come from the domain palette instead.
type Theme struct {
	Accent      lipgloss.Color
	Highlight   lipgloss.Color
	Text        lipgloss.Color
	Subtle      lipgloss.Color
	Surface     lipgloss.Color
	Border      lipgloss.Color
	Exact       lipgloss.Color
	Approximate lipgloss.Color
	Error       lipgloss.Color
}

// DefaultTheme is a dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:      "#7C3AED",
		Highlight:   "#06B6D4",
		Text:        "#CDD6F4",
		Subtle:      "#6C7086",
		Surface:     "#181825",
		Border:      "#45475A",
		Exact:       "#A6E3A1",
		Approximate: "#F9E2AF",
		Error:       "#F38BA8",
	}
}

// Styles are the styles every component shares.
type Styles struct {
	theme *Theme

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Muted       lipgloss.Style
	Selected    lipgloss.Style
	Exact       lipgloss.Style
	Approximate lipgloss.Style
	Error       lipgloss.Style
	InputField  lipgloss.Style
	StatusBar   lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme:       theme,
		Title:       fg(theme.Accent).Bold(true),
		Subtitle:    fg(theme.Highlight).Bold(true),
		Normal:      fg(theme.Text),
		Muted:       fg(theme.Subtle),
		Selected:    fg(theme.Text).Background(theme.Accent).Bold(true),
		Exact:       fg(theme.Exact),
		Approximate: fg(theme.Approximate),
		Error:       fg(theme.Error),
		InputField: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: fg(theme.Subtle).Background(theme.Surface).Padding(0, 1),
	}
}

// DefaultStyles is NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

func (s *Styles) Theme() *Theme {
	return s.theme
}

// Swatch paints a group label on the group's colour, with black or
// white text depending on luminance.
func (s *Styles) Swatch(c domain.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(c.Contrast().Hex())).
		Padding(0, 1)
}

// Match picks the row style for an exact or approximate combination.
func (s *Styles) Match(exact bool) lipgloss.Style {
	if exact {
		return s.Exact
	}
	return s.Approximate
}
