package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/services"
)

// newTestSession loads values into a fresh in-memory session.
func newTestSession(t *testing.T, values ...string) *services.Session {
	t.Helper()

	pool := memory.NewNumberPool()
	groups := memory.NewGroupStore()
	engine := services.NewSearchEngine(nil)
	engine.SetProgressInterval(0)
	session := services.NewSession(pool, groups, engine, services.NewFinalizationManager(pool, groups, nil))

	raw := make([]domain.RawValue, len(values))
	for i, v := range values {
		raw[i] = domain.RawValue{Text: v, Kind: domain.CellNumber}
	}
	_, err := session.LoadNumbers(context.Background(), raw, domain.LoadOptions{Precision: 2})
	require.NoError(t, err)
	return session
}

func newTestApp(t *testing.T, values ...string) *App {
	t.Helper()
	app, err := NewApp(&Ports{Session: newTestSession(t, values...)})
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

// drain runs cmd and feeds every app message it produces back into the
// app until no commands remain.
func drain(app *App, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case messages.SearchProgressed, messages.SearchCompleted,
			messages.CombinationFinalized, messages.SessionRefreshed, messages.ErrorOccurred:
			_, next := app.Update(msg)
			queue = append(queue, next)
		}
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(app *App, s string) {
	_, cmd := app.Update(keyMsg(s))
	drain(app, cmd)
}

func typeText(app *App, s string) {
	for _, r := range s {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingSessionService)
	assert.Nil(t, app)

	app, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrInvalidPorts)
	assert.Nil(t, app)
}

func TestNewApp_UsesSettingsDefaults(t *testing.T) {
	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set("search.max_results", "7"))

	app, err := NewApp(&Ports{Session: newTestSession(t), Settings: settings})

	require.NoError(t, err)
	assert.Equal(t, 7, app.Params().MaxResults)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)

	assert.Same(t, app, app.WithContext(context.Background()))
}

func TestApp_InitWithoutTarget_EditsTarget(t *testing.T) {
	app := newTestApp(t, "10", "20", "30")

	drain(app, app.Init())

	assert.True(t, app.target.Focused())
	assert.Equal(t, status.StateEditing, app.Status().State())
	assert.Contains(t, app.View(), "no target")
}

func TestApp_InitWithParams_Searches(t *testing.T) {
	app := newTestApp(t, "10", "20", "30", "40")
	params := domain.DefaultAppSettings().Search.Params(domain.AmountFromInt(50))
	app.WithParams(params)

	drain(app, app.Init())

	assert.False(t, app.Searching())
	assert.Equal(t, 2, app.Results().Count())
	assert.Equal(t, status.StateResults, app.Status().State())
	assert.Contains(t, app.View(), "target 50")
	assert.Contains(t, app.View(), "Pool: 4 available")
}

func TestApp_TypeTargetAndSearch(t *testing.T) {
	app := newTestApp(t, "10", "20", "30", "40")
	drain(app, app.Init())

	typeText(app, "50")
	press(app, "enter")

	assert.False(t, app.target.Focused())
	assert.Equal(t, domain.AmountFromInt(50), app.Params().Target)
	assert.Equal(t, 2, app.Results().Count())
}

func TestApp_InvalidTarget(t *testing.T) {
	app := newTestApp(t, "10")
	drain(app, app.Init())

	typeText(app, "abc")
	press(app, "enter")

	require.Error(t, app.Err())
	assert.ErrorIs(t, app.Err(), domain.ErrInvalidParameter)
	assert.Equal(t, status.StateError, app.Status().State())
	assert.True(t, app.target.Focused(), "stays in edit mode")
}

func TestApp_EscLeavesTargetEditing(t *testing.T) {
	app := newTestApp(t, "10")
	drain(app, app.Init())

	press(app, "esc")

	assert.False(t, app.target.Focused())
	assert.Equal(t, status.StateReady, app.Status().State())
}

func TestApp_FinalizeSelected(t *testing.T) {
	// Both results use the 20.
	app := newTestApp(t, "20", "30", "30")
	app.WithParams(domain.DefaultAppSettings().Search.Params(domain.AmountFromInt(50)))
	drain(app, app.Init())
	require.Equal(t, 2, app.Results().Count())

	press(app, "enter")

	require.NoError(t, app.Err())
	require.Len(t, app.Groups(), 1)
	assert.Equal(t, domain.ColorForSequence(0), app.Groups()[0].Color)
	assert.Equal(t, 0, app.Results().Count(), "the overlapping result is dropped")
	assert.Contains(t, app.Status().Message(), "Group 1 (Light Blue) finalized")
	assert.Contains(t, app.View(), "Light Blue")
}

func TestApp_FinalizeKeepsDisjointResults(t *testing.T) {
	app := newTestApp(t, "10", "40", "20", "30")
	app.WithParams(domain.SearchParams{
		Target: domain.AmountFromInt(50), MinCount: 2, MaxCount: 2, MaxResults: 10,
	})
	drain(app, app.Init())
	// {10,40} and {20,30} are disjoint.
	require.Equal(t, 2, app.Results().Count())

	press(app, "enter")

	assert.Len(t, app.Groups(), 1)
	assert.Equal(t, 1, app.Results().Count())

	press(app, "enter")

	assert.Len(t, app.Groups(), 2)
	assert.Equal(t, domain.ColorForSequence(1), app.Groups()[1].Color)
	assert.True(t, app.Results().IsEmpty())
}

func TestApp_FinalizeWithNothingSelected(t *testing.T) {
	app := newTestApp(t, "10")
	app.WithParams(domain.DefaultAppSettings().Search.Params(domain.AmountFromInt(999)))
	drain(app, app.Init())

	_, cmd := app.Update(keyMsg("enter"))

	assert.Nil(t, cmd)
}

func TestApp_Rerun(t *testing.T) {
	app := newTestApp(t, "10", "40", "20", "30")
	app.WithParams(domain.SearchParams{
		Target: domain.AmountFromInt(50), MinCount: 2, MaxCount: 2, MaxResults: 10,
	})
	drain(app, app.Init())
	press(app, "enter")

	press(app, "r")

	assert.Equal(t, 1, app.Results().Count())
	assert.Equal(t, status.StateResults, app.Status().State())
}

func TestApp_SearchingIgnoresKeysExceptCancel(t *testing.T) {
	app := newTestApp(t, "10", "20")
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	_, cmd := app.Update(keyMsg("r"))
	assert.Nil(t, cmd)
	assert.True(t, app.Searching())

	app.Update(keyMsg("esc"))
	assert.Error(t, ctx.Err(), "esc cancels the running search")
}

func TestApp_SearchCompletedCancelled(t *testing.T) {
	app := newTestApp(t, "10")
	rs := domain.NewResultSet(domain.SearchParams{}, nil)
	rs.Cancelled = true

	app.Update(messages.SearchCompleted{Results: rs})

	assert.Contains(t, app.Status().Message(), "cancelled")
}

func TestApp_ErrorMessages(t *testing.T) {
	app := newTestApp(t, "10")

	app.Update(messages.CombinationFinalized{Err: &domain.SelectionError{Kind: domain.ErrStaleSelection}})
	assert.Contains(t, app.Status().Message(), "press r")

	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})
	assert.Equal(t, "disk full", app.Status().Message())
	assert.Equal(t, status.StateError, app.Status().State())
}

func TestApp_SearchProgressed(t *testing.T) {
	app := newTestApp(t, "10")
	updates := make(chan domain.SearchProgress)
	close(updates)

	_, cmd := app.Update(messages.SearchProgressed{
		Progress: domain.SearchProgress{NodesVisited: 2048, Emitted: 4},
		Updates:  updates,
	})
	app.Status().SetState(status.StateSearching)

	require.NotNil(t, cmd)
	assert.Nil(t, cmd(), "closed channel ends the progress loop")
	assert.Contains(t, app.Status().View(), "2048 nodes, 4 found")
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, "10")
	app.WithParams(domain.DefaultAppSettings().Search.Params(domain.AmountFromInt(10)))
	drain(app, app.Init())

	press(app, "?")
	assert.Contains(t, app.View(), "search again")

	press(app, "?")
	assert.False(t, app.showHelp)
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, "10")

	_, cmd := app.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
