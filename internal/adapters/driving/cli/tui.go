package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

var (
	tuiInput  inputFlags
	tuiSearch searchFlags
)

// runProgram runs the bubbletea program. Replaced in tests.
var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [numbers...]",
	Short: "Launch the interactive terminal UI",
	Long: `Load numbers and browse combinations interactively.

Numbers come from --file or the arguments. Without --target the UI opens
with the target field focused.

Controls:
  ↑/k, ↓/j - Navigate results
  Enter    - Finalize the selected combination
  t        - Edit the target
  r        - Search again
  Esc      - Cancel a running search
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiInput.register(tuiCmd)
	tuiSearch.register(tuiCmd, "start searching for this target immediately")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if tuiInput.file == "" && len(args) == 0 {
		// stdin is the terminal the UI draws on.
		return errors.New("no input: pass numbers as arguments or use --file")
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}
	opts, precision, err := tuiInput.options(settings)
	if err != nil {
		return err
	}
	values, err := readValues(cmd, args, opts, tuiInput.file)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if _, err := sessionService.LoadNumbers(ctx, values, domain.LoadOptions{NewSession: true, Precision: precision}); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Session: sessionService, Settings: settingsService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if tuiSearch.target != "" {
		params, err := tuiSearch.params(cmd, settings)
		if err != nil {
			return err
		}
		app.WithParams(params)
	}

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
