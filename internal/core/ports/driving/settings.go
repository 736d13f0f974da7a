package driving

import "github.com/coding/coding-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (domain.Settings, error)

	// Save persists application settings.
	Save(settings domain.Settings) error

	// Set parses and stores a single setting by key.
	Set(key, value string) error

	// SetMany applies several settings, reporting every invalid one.
	SetMany(values map[string]string) error

	// Keys returns the settable keys in display order.
	Keys() []string

	// Values returns the current value of every settable key.
	Values() (map[string]string, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
