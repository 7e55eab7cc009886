package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for name, c := range map[string]lipgloss.Color{
		"accent":      theme.Accent,
		"highlight":   theme.Highlight,
		"text":        theme.Text,
		"subtle":      theme.Subtle,
		"surface":     theme.Surface,
		"border":      theme.Border,
		"exact":       theme.Exact,
		"approximate": theme.Approximate,
		"error":       theme.Error,
	} {
		assert.Regexp(t, `^#[0-9A-Fa-f]{6}$`, string(c), name)
	}
}

func TestDefaultTheme_MatchColoursDiffer(t *testing.T) {
	theme := DefaultTheme()

	assert.NotEqual(t, theme.Exact, theme.Approximate)
	assert.NotEqual(t, theme.Exact, theme.Error)
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_Swatch(t *testing.T) {
	s := DefaultStyles()
	plum := domain.Color{Name: "Plum", R: 221, G: 160, B: 221}

	swatch := s.Swatch(plum)

	assert.Equal(t, lipgloss.Color("#dda0dd"), swatch.GetBackground())
	assert.Equal(t, lipgloss.Color("#000000"), swatch.GetForeground())
}

func TestNewStyles_StatusBarUsesSurface(t *testing.T) {
	theme := DefaultTheme()
	s := NewStyles(theme)

	assert.Equal(t, theme.Surface, s.StatusBar.GetBackground())
	assert.Equal(t, 2, s.StatusBar.GetHorizontalFrameSize())
}

func TestStyles_Match(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Exact, s.Match(true))
	assert.Equal(t, s.Approximate, s.Match(false))
}
