package driven

// ConfigReader reads settings by dotted key, e.g. "api.timeout_ms".
// Typed getters return the zero value for missing keys and for values
// of another kind.
type ConfigReader interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
}

// ConfigStore is a ConfigReader backed by persistent storage.
type ConfigStore interface {
	ConfigReader

	// Set stores a value. File-backed stores write it out before returning.
	Set(key string, value any) error

	// Save writes every value to storage.
	Save() error

	// Load discards in-memory values and rereads storage.
	Load() error

	// Path identifies the backing storage, for messages.
	Path() string
}
