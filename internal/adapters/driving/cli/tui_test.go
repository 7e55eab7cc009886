package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// stubProgram captures the model instead of taking over the terminal.
func stubProgram(t *testing.T) **tui.App {
	t.Helper()
	var got *tui.App
	original := runProgram
	runProgram = func(model tea.Model) error {
		got, _ = model.(*tui.App)
		return nil
	}
	t.Cleanup(func() { runProgram = original })
	return &got
}

func TestTUICmd_LoadsNumbers(t *testing.T) {
	session, _, _ := setupTestServices(t)
	app := stubProgram(t)

	_, err := execute(t, "", "tui", "10", "20", "30")

	require.NoError(t, err)
	require.NotNil(t, *app)
	assert.Zero(t, (*app).Params().Target, "no target given")

	entries, err := session.PoolSnapshot(t.Context())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestTUICmd_WithTarget(t *testing.T) {
	setupTestServices(t)
	app := stubProgram(t)

	_, err := execute(t, "", "tui", "-t", "50", "--tolerance", "0.5", "--max", "3", "10", "40")

	require.NoError(t, err)
	require.NotNil(t, *app)
	params := (*app).Params()
	assert.Equal(t, domain.AmountFromInt(50), params.Target)
	assert.Equal(t, domain.MustParseAmount("0.5"), params.Tolerance)
	assert.Equal(t, 3, params.MaxCount)
}

func TestTUICmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "no input", args: []string{"tui"}, msg: "no input"},
		{name: "bad target", args: []string{"tui", "-t", "x", "10"}, msg: "target"},
		{name: "malformed number", args: []string{"tui", "1O"}, msg: "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)
			app := stubProgram(t)

			_, err := execute(t, "", tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Nil(t, *app, "the program is not started")
		})
	}
}

func TestTUICmd_NoSession(t *testing.T) {
	stubProgram(t)

	_, err := execute(t, "", "tui", "10")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "session service not configured")
}
