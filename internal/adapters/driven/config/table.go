// Package config holds the key/value table shared by the config store
// adapters. Subpackages decide where the table is persisted.
package config

import (
	"maps"
	"sync"
)

// Table is a concurrency-safe map from dotted setting keys ("api.host")
// to raw values. Typed getters return the zero value when a key is
// missing or holds a value of another kind.
type Table struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string]any)}
}

// Get returns the raw value stored under key.
func (t *Table) Get(key string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[key]
	return v, ok
}

// Put stores value under key.
func (t *Table) Put(key string, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[key] = value
}

// Snapshot returns a copy of every entry.
func (t *Table) Snapshot() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.values)
}

// Replace swaps the whole table for values. A nil map empties it.
func (t *Table) Replace(values map[string]any) {
	if values == nil {
		values = make(map[string]any)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values = values
}

// GetString returns key as a string.
func (t *Table) GetString(key string) string {
	v, _ := t.Get(key)
	s, _ := v.(string)
	return s
}

// GetBool returns key as a bool.
func (t *Table) GetBool(key string) bool {
	v, _ := t.Get(key)
	b, _ := v.(bool)
	return b
}

// GetInt returns key as an int. Floats are truncated.
func (t *Table) GetInt(key string) int {
	v, _ := t.Get(key)
	n, _ := asNumber(v)
	return int(n)
}

// GetFloat returns key as a float64. Integers are widened; TOML decodes
// them as int64.
func (t *Table) GetFloat(key string) float64 {
	v, _ := t.Get(key)
	n, _ := asNumber(v)
	return n
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
