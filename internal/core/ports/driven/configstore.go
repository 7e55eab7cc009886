package driven

// ConfigStore holds flat, dot-keyed settings such as "search.tolerance".
// Values keep the types the backing format decodes to: strings, int64
// and float64 for TOML.
type ConfigStore interface {
	// Get returns the raw value and whether key is present.
	Get(key string) (any, bool)

	// GetString returns "" when key is missing or not a string.
	GetString(key string) string

	// GetInt returns 0 when key is missing or not a whole number.
	GetInt(key string) int

	// Set stores one value. File-backed stores persist it immediately.
	Set(key string, value any) error

	// Save flushes every value to the backing store.
	Save() error

	// Load discards in-memory values and rereads the backing store.
	Load() error

	// Path describes where the values live, for diagnostics.
	Path() string
}
