package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

func entry(id int64, value string) domain.NumberEntry {
	return domain.NumberEntry{ID: domain.EntryID(id), Value: domain.MustParseAmount(value)}
}

func testResults() *domain.ResultSet {
	target := domain.AmountFromInt(50)
	tol := domain.AmountFromInt(3)
	return domain.NewResultSet(domain.SearchParams{Target: target, Tolerance: tol}, []domain.Combination{
		domain.NewCombination([]domain.NumberEntry{entry(2, "20"), entry(3, "30")}, target, tol),
		domain.NewCombination([]domain.NumberEntry{entry(1, "10"), entry(4, "41")}, target, tol),
		domain.NewCombination([]domain.NumberEntry{entry(5, "10"), entry(6, "38")}, target, tol),
	})
}

func TestNewResultList(t *testing.T) {
	r := NewResultList(nil)

	require.NotNil(t, r)
	assert.True(t, r.IsEmpty())
	assert.Nil(t, r.SelectedCombination())
	assert.Nil(t, r.Init())
	assert.Contains(t, r.View(), "No combinations")
}

func TestResultList_SetResults(t *testing.T) {
	r := NewResultList(nil)

	r.SetResults(testResults())

	assert.Equal(t, 3, r.Count())
	sel := r.SelectedCombination()
	require.NotNil(t, sel)
	assert.True(t, sel.Exact(), "exact matches are listed first")
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(testResults())

	r.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, r.Selected())

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, r.Selected())

	r.MoveDown()
	assert.Equal(t, 2, r.Selected(), "stays on last row")

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, r.Selected())

	r.MoveUp()
	assert.Equal(t, 0, r.Selected())

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.Equal(t, 2, r.Selected())
}

func TestResultList_SetResults_ClampsSelection(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(testResults())
	r.SetSelected(2)

	pruned := testResults().Invalidate(domain.NewIDSet(2, 4))
	r.SetResults(pruned)

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 0, r.Selected())

	r.SetResults(nil)
	assert.True(t, r.IsEmpty())
	assert.Nil(t, r.SelectedCombination())
}

func TestResultList_SetSelected_IgnoresOutOfRange(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(testResults())

	r.SetSelected(7)
	assert.Equal(t, 0, r.Selected())
	r.SetSelected(-1)
	assert.Equal(t, 0, r.Selected())
}

func TestResultList_View(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(80, 10)
	r.SetResults(testResults())

	view := r.View()

	assert.Contains(t, view, "1 exact, 2 approximate")
	assert.Contains(t, view, "20 + 30 = 50")
	assert.Contains(t, view, "+1.00")
	assert.Contains(t, view, "exact")
}

func TestResultList_View_Scrolls(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(80, 3)
	r.SetResults(testResults())
	r.SetSelected(2)

	view := r.View()

	assert.NotContains(t, view, "20 + 30 = 50")
	assert.Contains(t, view, "10 + 38 = 48")
}
