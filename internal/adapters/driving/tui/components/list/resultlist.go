// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// ResultList displays combinations, exact first, in a navigable list.
type ResultList struct {
	combos    []domain.Combination
	exact     int
	selected  int
	precision int
	styles    *styles.Styles
	width     int
	height    int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles:    s,
		precision: 2,
		width:     80,
		height:    10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.combos) > 0 {
				r.selected = len(r.combos) - 1
			}
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.combos) == 0 {
		return r.styles.Muted.Render("No combinations")
	}

	lines := make([]string, 0, len(r.combos)+3)
	header := fmt.Sprintf("Results (%d exact, %d approximate)", r.exact, len(r.combos)-r.exact)
	lines = append(lines, r.styles.Subtitle.Render(header), "")

	visible := r.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.combos))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) renderRow(i int) string {
	c := r.combos[i]

	indicator := "  "
	if i == r.selected {
		indicator = "> "
	}

	text := c.String()
	maxLen := r.width - 20
	if maxLen < 10 {
		maxLen = 10
	}
	if len(text) > maxLen {
		text = text[:maxLen-3] + "..."
	}

	diff := "exact"
	if !c.Exact() {
		diff = c.DifferenceDisplay(r.precision)
	}

	row := fmt.Sprintf("%s%3d. %-*s %s", indicator, i+1, maxLen, text, diff)
	if i == r.selected {
		return r.styles.Selected.Render(row)
	}
	return r.styles.Match(c.Exact()).Render(row)
}

// SetResults replaces the list with the combinations of rs.
// The selection is kept in range rather than reset, so finalizing moves
// the cursor to the next surviving row.
func (r *ResultList) SetResults(rs *domain.ResultSet) {
	if rs == nil {
		r.combos, r.exact = nil, 0
	} else {
		r.combos, r.exact = rs.All(), len(rs.Exact)
	}
	if r.selected >= len(r.combos) {
		r.selected = max(len(r.combos)-1, 0)
	}
}

// SetPrecision sets the decimal places used for differences.
func (r *ResultList) SetPrecision(places int) {
	r.precision = places
}

// Selected returns the index of the selected row.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.combos) {
		r.selected = index
	}
}

// SelectedCombination returns the selected combination, or nil if none.
func (r *ResultList) SelectedCombination() *domain.Combination {
	if len(r.combos) == 0 {
		return nil
	}
	return &r.combos[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.combos)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of combinations.
func (r *ResultList) Count() int {
	return len(r.combos)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.combos) == 0
}
