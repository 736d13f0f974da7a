package memory

import (
	"github.com/coding/coding-cli/internal/adapters/driven/config"
	"github.com/coding/coding-cli/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a config.Table that is never persisted.
// Tests use it in place of the TOML file.
type ConfigStore struct {
	*config.Table
}

// NewConfigStore returns an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{Table: config.NewTable()}
}

// Set stores value under key.
func (s *ConfigStore) Set(key string, value any) error {
	s.Put(key, value)
	return nil
}

func (s *ConfigStore) Save() error { return nil }

func (s *ConfigStore) Load() error { return nil }

// Path names the store in diagnostics.
func (s *ConfigStore) Path() string { return ":memory:" }
