package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySearchTolerance  = "search.tolerance"
	keySearchMinCount   = "search.min_count"
	keySearchMaxCount   = "search.max_count"
	keySearchMaxResults = "search.max_results"
	keyInputMode        = "input.mode"
	keyInputPrecision   = "input.precision"
)

// settingKeys lists every recognised key in display order.
var settingKeys = []string{
	keySearchTolerance,
	keySearchMinCount,
	keySearchMaxCount,
	keySearchMaxResults,
	keyInputMode,
	keyInputPrecision,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or unparsable values fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchDefaults{
			Tolerance:  s.getAmount(keySearchTolerance, defaults.Search.Tolerance),
			MinCount:   s.getInt(keySearchMinCount, defaults.Search.MinCount),
			MaxCount:   s.getInt(keySearchMaxCount, defaults.Search.MaxCount),
			MaxResults: s.getInt(keySearchMaxResults, defaults.Search.MaxResults),
		},
		Input: domain.InputSettings{
			Mode:      s.getInputMode(defaults.Input.Mode),
			Precision: s.getPrecision(defaults.Input.Precision),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Search.Params(0).Validate(); err != nil {
		return err
	}
	if err := (domain.LoadOptions{Precision: settings.Input.Precision}).Validate(); err != nil {
		return err
	}
	if !settings.Input.Mode.IsValid() {
		return &domain.ParameterError{Field: "input mode", Reason: fmt.Sprintf("%q is not recognised", settings.Input.Mode)}
	}

	if err := s.configStore.Set(keySearchTolerance, settings.Search.Tolerance.String()); err != nil {
		return fmt.Errorf("save search tolerance: %w", err)
	}
	if err := s.configStore.Set(keySearchMinCount, settings.Search.MinCount); err != nil {
		return fmt.Errorf("save search min_count: %w", err)
	}
	if err := s.configStore.Set(keySearchMaxCount, settings.Search.MaxCount); err != nil {
		return fmt.Errorf("save search max_count: %w", err)
	}
	if err := s.configStore.Set(keySearchMaxResults, settings.Search.MaxResults); err != nil {
		return fmt.Errorf("save search max_results: %w", err)
	}
	if err := s.configStore.Set(keyInputMode, settings.Input.Mode.String()); err != nil {
		return fmt.Errorf("save input mode: %w", err)
	}
	if err := s.configStore.Set(keyInputPrecision, settings.Input.Precision); err != nil {
		return fmt.Errorf("save input precision: %w", err)
	}

	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Set updates a single setting from its string form.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keySearchTolerance:
		tol, err := domain.ParseAmount(value)
		if err != nil {
			return &domain.ParameterError{Field: "tolerance", Reason: err.Error()}
		}
		settings.Search.Tolerance = tol
	case keySearchMinCount:
		settings.Search.MinCount, err = parseIntSetting(key, value)
	case keySearchMaxCount:
		settings.Search.MaxCount, err = parseIntSetting(key, value)
	case keySearchMaxResults:
		settings.Search.MaxResults, err = parseIntSetting(key, value)
	case keyInputMode:
		settings.Input.Mode = domain.InputMode(value)
	case keyInputPrecision:
		settings.Input.Precision, err = parseIntSetting(key, value)
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}

	return s.Save(settings)
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func parseIntSetting(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &domain.ParameterError{Field: key, Reason: fmt.Sprintf("%q is not an integer", value)}
	}
	return n, nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getPrecision differs from getInt because zero decimal places is valid.
func (s *SettingsService) getPrecision(defaultVal int) int {
	if _, exists := s.configStore.Get(keyInputPrecision); !exists {
		return defaultVal
	}
	p := s.configStore.GetInt(keyInputPrecision)
	if p < 0 || p > domain.AmountPlaces {
		return defaultVal
	}
	return p
}

func (s *SettingsService) getAmount(key string, defaultVal domain.Amount) domain.Amount {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	var text string
	switch v := val.(type) {
	case string:
		text = v
	case int64:
		return domain.AmountFromInt(v)
	case int:
		return domain.AmountFromInt(int64(v))
	case float64:
		return domain.AmountFromFloat(v)
	default:
		return defaultVal
	}
	amount, err := domain.ParseAmount(text)
	if err != nil || amount < 0 {
		return defaultVal
	}
	return amount
}

func (s *SettingsService) getInputMode(defaultVal domain.InputMode) domain.InputMode {
	val := s.configStore.GetString(keyInputMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.InputMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
