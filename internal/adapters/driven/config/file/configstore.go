package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/coding/coding-cli/internal/adapters/driven/config"
	"github.com/coding/coding-cli/internal/core/ports/driven"
)

// FileName is the name of the settings file inside the config directory.
const FileName = "config.toml"

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore persists settings as TOML. In memory every key is a dotted
// path; on disk the first segments become tables, so "api.host" is written
// as host under [api].
type ConfigStore struct {
	*config.Table

	path    string
	writeMu sync.Mutex
}

// NewConfigStore opens dir/config.toml, creating dir when needed.
// An empty dir means ~/.coding.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		dir = filepath.Join(home, ".coding")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		Table: config.NewTable(),
		path:  filepath.Join(dir, FileName),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the TOML file.
func (s *ConfigStore) Path() string {
	return s.path
}

// Set stores value and rewrites the file. If the file cannot be written
// the previous value is restored.
func (s *ConfigStore) Set(key string, value any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	previous, existed := s.Get(key)
	s.Put(key, value)
	if err := s.write(); err != nil {
		if existed {
			s.Put(key, previous)
		} else {
			s.drop(key)
		}
		return err
	}
	return nil
}

// Save rewrites the file from the current table.
func (s *ConfigStore) Save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.write()
}

// Load replaces the table with the file contents. A missing file
// leaves the table empty.
func (s *ConfigStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.Replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	doc := map[string]any{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.Replace(flattenMap(doc, ""))
	return nil
}

// write must be called with writeMu held.
func (s *ConfigStore) write() error {
	raw, err := toml.Marshal(nestMap(s.Snapshot()))
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *ConfigStore) drop(key string) {
	values := s.Snapshot()
	delete(values, key)
	s.Replace(values)
}

// flattenMap turns TOML tables into dotted keys: {"a": {"b": 1}} becomes
// {"a.b": 1}.
func flattenMap(doc map[string]any, prefix string) map[string]any {
	flat := make(map[string]any, len(doc))
	for name, value := range doc {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		table, isTable := value.(map[string]any)
		if !isTable {
			flat[key] = value
			continue
		}
		for k, v := range flattenMap(table, key) {
			flat[k] = v
		}
	}
	return flat
}

// nestMap reverses flattenMap. Keys are placed shortest first, so when a
// key is both a value and a table prefix the value wins.
func nestMap(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Count(a, ".") - strings.Count(b, ".")
	})

	doc := make(map[string]any)
	for _, key := range keys {
		segments := strings.Split(key, ".")
		if table := tableFor(doc, segments[:len(segments)-1]); table != nil {
			table[segments[len(segments)-1]] = flat[key]
		}
	}
	return doc
}

// tableFor walks path below doc, creating tables as it goes. It returns nil
// when a segment is already taken by a plain value.
func tableFor(doc map[string]any, path []string) map[string]any {
	table := doc
	for _, segment := range path {
		switch child := table[segment].(type) {
		case map[string]any:
			table = child
		case nil:
			next := make(map[string]any)
			table[segment] = next
			table = next
		default:
			return nil
		}
	}
	return table
}
