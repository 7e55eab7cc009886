package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

func TestSettingsCmd_Show(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[Search]")
	assert.Contains(t, out, "Max results: 100")
	assert.Contains(t, out, "[Input]")
	assert.Contains(t, out, "Line separated")
	assert.Contains(t, out, "Precision: 2 decimal places")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_Set(t *testing.T) {
	_, settings, _ := setupTestServices(t)

	out, err := execute(t, "", "settings", "set", "search.tolerance", "0.05")

	require.NoError(t, err)
	assert.Contains(t, out, "Set search.tolerance = 0.05")
	got, err := settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.MustParseAmount("0.05"), got.Search.Tolerance)
}

func TestSettingsCmd_SetErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "unknown key", args: []string{"settings", "set", "search.colour", "red"}, msg: `unknown setting "search.colour"`},
		{name: "not an integer", args: []string{"settings", "set", "search.max_count", "many"}, msg: "not an integer"},
		{name: "invalid mode", args: []string{"settings", "set", "input.mode", "xml"}, msg: "failed to set input.mode"},
		{name: "missing value", args: []string{"settings", "set", "search.tolerance"}, msg: "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			_, err := execute(t, "", tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSettingsCmd_Reset(t *testing.T) {
	_, settings, _ := setupTestServices(t)
	require.NoError(t, settings.Set("search.max_results", "5"))

	out, err := execute(t, "", "settings", "reset")

	require.NoError(t, err)
	assert.Contains(t, out, "restored to defaults")
	got, err := settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 100, got.Search.MaxResults)
}

func TestSettingsCmd_NoService(t *testing.T) {
	for _, args := range [][]string{
		{"settings", "show"},
		{"settings", "set", "search.tolerance", "1"},
		{"settings", "reset"},
	} {
		_, err := execute(t, "", args...)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}
