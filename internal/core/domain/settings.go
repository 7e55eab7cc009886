package domain

const unknownDescription = "Unknown"

// InputMode defines how free text is split into values.
type InputMode string

// Available input modes.
const (
	// InputModeLine reads one value per line.
	InputModeLine InputMode = "line"

	// InputModeComma reads comma-separated values.
	InputModeComma InputMode = "comma"

	// InputModeCSV reads every cell of a CSV sheet, keeping row/column provenance.
	InputModeCSV InputMode = "csv"
)

// IsValid returns true if the input mode is recognised.
func (m InputMode) IsValid() bool {
	switch m {
	case InputModeLine, InputModeComma, InputModeCSV:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m InputMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m InputMode) Description() string {
	switch m {
	case InputModeLine:
		return "Line separated (one number per line)"
	case InputModeComma:
		return "Comma separated"
	case InputModeCSV:
		return "CSV sheet (every non-empty cell)"
	default:
		return unknownDescription
	}
}

// AllInputModes returns all available input modes.
func AllInputModes() []InputMode {
	return []InputMode{
		InputModeLine,
		InputModeComma,
		InputModeCSV,
	}
}

// SearchDefaults holds the default search parameters.
// The target is always supplied per search.
type SearchDefaults struct {
	Tolerance  Amount
	MinCount   int
	MaxCount   int
	MaxResults int
}

// Params returns SearchParams for target using these defaults.
func (d SearchDefaults) Params(target Amount) SearchParams {
	return SearchParams{
		Target:     target,
		Tolerance:  d.Tolerance,
		MinCount:   d.MinCount,
		MaxCount:   d.MaxCount,
		MaxResults: d.MaxResults,
	}
}

// InputSettings holds input handling configuration.
type InputSettings struct {
	// Mode is the default text splitting mode.
	Mode InputMode

	// Precision is the number of decimal places values are rounded to on load.
	Precision int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Search holds default search parameters.
	Search SearchDefaults

	// Input holds input handling settings.
	Input InputSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchDefaults{
			Tolerance:  0,
			MinCount:   1,
			MaxCount:   10,
			MaxResults: 100,
		},
		Input: InputSettings{
			Mode:      InputModeLine,
			Precision: 2,
		},
	}
}
