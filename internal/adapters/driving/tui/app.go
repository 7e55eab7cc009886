package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// headerLines is the height taken by everything above the result list,
// not counting group rows.
const headerLines = 8

// App is the single-screen TUI following the Elm architecture: pick a
// target, search, and finalize combinations until nothing useful is left.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	target  *input.TargetInput
	results *list.ResultList
	status  *status.Bar
	help    help.Model

	params    domain.SearchParams
	hasTarget bool
	precision int

	groups  []domain.FinalizedGroup
	summary domain.SessionSummary

	// cancel stops the running search; nil when idle.
	cancel context.CancelFunc

	showHelp bool
	err      error

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// Search defaults come from the settings port when one is provided.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	settings := domain.DefaultAppSettings()
	if ports.Settings != nil {
		stored, err := ports.Settings.Get()
		if err != nil {
			return nil, fmt.Errorf("creating app: %w", err)
		}
		settings = *stored
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	results := list.NewResultList(s)
	results.SetPrecision(settings.Input.Precision)

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		target:    input.NewTargetInput(s),
		results:   results,
		status:    status.NewBar(s, km),
		help:      help.New(),
		params:    settings.Search.Params(0),
		precision: settings.Input.Precision,
		width:     80,
		height:    24,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithParams sets the parameters of the first search, which starts as
// soon as the program runs.
func (a *App) WithParams(params domain.SearchParams) *App {
	a.params = params
	a.hasTarget = true
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("combimatch"), a.refresh()}
	if a.hasTarget {
		cmds = append(cmds, a.startSearch())
	} else {
		cmds = append(cmds, a.editTarget())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.status.SetWidth(msg.Width)
		a.help.Width = msg.Width
		a.resize()
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.SearchProgressed:
		a.status.SetProgress(msg.Progress.NodesVisited, msg.Progress.Emitted)
		return a, waitForProgress(msg.Updates)

	case messages.SearchCompleted:
		a.stopSearch()
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.results.SetResults(msg.Results)
		a.status.SetState(status.StateResults)
		a.status.SetMessage(describeResults(msg.Results))
		return a, a.refresh()

	case messages.CombinationFinalized:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.results.SetResults(msg.Results)
		a.groups, a.summary = msg.Groups, msg.Summary
		a.resize()
		a.status.SetState(status.StateResults)
		a.status.SetMessage(fmt.Sprintf("Group %d (%s) finalized, %d combinations remain",
			msg.Group.Seq+1, msg.Group.Color.Name, msg.Results.Len()))
		return a, nil

	case messages.SessionRefreshed:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.groups, a.summary = msg.Groups, msg.Summary
		a.resize()
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		a.stopSearch()
		return tea.Quit
	}

	if a.target.Focused() {
		switch {
		case key.Matches(msg, a.keymap.Cancel):
			a.target.Blur()
			a.status.SetState(a.idleState())
			return nil
		case key.Matches(msg, a.keymap.Submit):
			return a.submitTarget()
		}
		_, cmd := a.target.Update(msg)
		return cmd
	}

	if a.Searching() {
		switch {
		case key.Matches(msg, a.keymap.Cancel):
			a.cancel()
		case key.Matches(msg, a.keymap.Quit):
			a.stopSearch()
			return tea.Quit
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, a.keymap.Help):
		a.showHelp = !a.showHelp
		a.resize()
	case key.Matches(msg, a.keymap.Target):
		return a.editTarget()
	case key.Matches(msg, a.keymap.Rerun):
		if a.hasTarget {
			return a.startSearch()
		}
	case key.Matches(msg, a.keymap.Finalize):
		return a.finalizeSelected()
	default:
		a.results.Update(msg)
	}
	return nil
}

func (a *App) editTarget() tea.Cmd {
	if a.hasTarget {
		a.target.SetValue(a.params.Target.String())
	}
	a.status.SetState(status.StateEditing)
	return a.target.Focus()
}

func (a *App) submitTarget() tea.Cmd {
	target, err := a.target.Amount()
	if err != nil {
		a.setError(err)
		return nil
	}
	a.target.Blur()
	a.params.Target = target
	a.hasTarget = true
	return a.startSearch()
}

// startSearch runs FindCombinations in a command goroutine. Progress
// snapshots arrive on a channel drained by waitForProgress.
func (a *App) startSearch() tea.Cmd {
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancel = cancel
	a.err = nil
	a.status.SetState(status.StateSearching)
	a.status.SetProgress(0, 0)

	session, params := a.ports.Session, a.params
	updates := make(chan domain.SearchProgress, 1)

	run := func() tea.Msg {
		defer close(updates)
		rs, err := session.FindCombinations(ctx, params, func(p domain.SearchProgress) {
			select {
			case updates <- p:
			default:
			}
		})
		return messages.SearchCompleted{Results: rs, Err: err}
	}
	return tea.Batch(run, waitForProgress(updates))
}

func waitForProgress(updates <-chan domain.SearchProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return nil
		}
		return messages.SearchProgressed{Progress: p, Updates: updates}
	}
}

func (a *App) stopSearch() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *App) finalizeSelected() tea.Cmd {
	c := a.results.SelectedCombination()
	if c == nil {
		return nil
	}
	ids := slices.Clone(c.MemberIDs)
	session, ctx := a.ports.Session, a.ctx

	return func() tea.Msg {
		group, err := session.FinalizeCombination(ctx, ids)
		if err != nil {
			return messages.CombinationFinalized{Err: err}
		}
		msg := messages.CombinationFinalized{Group: group, Results: session.LiveResults()}
		if msg.Groups, msg.Err = session.FinalizedGroups(ctx); msg.Err != nil {
			return msg
		}
		msg.Summary, msg.Err = session.Summary(ctx)
		return msg
	}
}

func (a *App) refresh() tea.Cmd {
	session, ctx := a.ports.Session, a.ctx
	return func() tea.Msg {
		groups, err := session.FinalizedGroups(ctx)
		if err != nil {
			return messages.SessionRefreshed{Err: err}
		}
		summary, err := session.Summary(ctx)
		return messages.SessionRefreshed{Groups: groups, Summary: summary, Err: err}
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.status.SetState(status.StateError)
	if errors.Is(err, domain.ErrStaleSelection) {
		a.status.SetMessage("selection is stale, press r to search again")
		return
	}
	a.status.SetMessage(err.Error())
}

func (a *App) idleState() status.State {
	if a.results.IsEmpty() {
		return status.StateReady
	}
	return status.StateResults
}

func (a *App) resize() {
	used := headerLines + len(a.groups)
	if a.showHelp {
		used += 4
	}
	a.results.SetDimensions(a.width, max(a.height-used, 3))
}

func describeResults(rs *domain.ResultSet) string {
	msg := fmt.Sprintf("%d combinations in %d nodes", rs.Len(), rs.NodesVisited)
	if rs.Cancelled {
		msg += " (cancelled, partial)"
	}
	return msg
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("combimatch"))
	b.WriteString("  ")
	b.WriteString(a.styles.Normal.Render(a.describeParams()))
	b.WriteString("\n\n")

	if a.target.Focused() {
		b.WriteString(a.target.View())
		b.WriteString("\n\n")
	}

	b.WriteString(a.styles.Muted.Render(fmt.Sprintf("Pool: %d available (%s)  %d finalized (%s)  %d groups",
		a.summary.AvailableEntries, a.summary.AvailableTotal.StringFixed(a.precision),
		a.summary.FinalizedEntries, a.summary.FinalizedTotal.StringFixed(a.precision),
		a.summary.Groups)))
	b.WriteString("\n")

	for _, g := range a.groups {
		b.WriteString(a.renderGroup(g))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(a.results.View())
	b.WriteString("\n\n")

	if a.showHelp {
		b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
		b.WriteString("\n")
	}

	b.WriteString(a.status.View())
	return b.String()
}

func (a *App) describeParams() string {
	if !a.hasTarget {
		return "no target"
	}
	return fmt.Sprintf("target %s ± %s  sizes %d..%d  limit %d",
		a.params.Target, a.params.Tolerance, a.params.MinCount, a.params.MaxCount, a.params.MaxResults)
}

func (a *App) renderGroup(g domain.FinalizedGroup) string {
	label := a.styles.Swatch(g.Color).Render(fmt.Sprintf("%d %s", g.Seq+1, g.Color.Name))
	values := make([]string, len(g.Values))
	for i, v := range g.Values {
		values[i] = v.String()
	}
	text := a.styles.Normal.Render(fmt.Sprintf(" %s = %s", strings.Join(values, " + "), g.Sum))
	return lipgloss.JoinHorizontal(lipgloss.Top, label, text)
}

// Searching reports whether a search is running.
func (a *App) Searching() bool {
	return a.cancel != nil
}

// Params returns the parameters of the next search.
func (a *App) Params() domain.SearchParams {
	return a.params
}

// Err returns the last error shown.
func (a *App) Err() error {
	return a.err
}

// Groups returns the finalized groups last read from the session.
func (a *App) Groups() []domain.FinalizedGroup {
	return a.groups
}

// Results returns the result list component.
func (a *App) Results() *list.ResultList {
	return a.results
}

// Status returns the status bar component.
func (a *App) Status() *status.Bar {
	return a.status
}
