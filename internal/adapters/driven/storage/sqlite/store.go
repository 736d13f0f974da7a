package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/coding/coding-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/coding/coding-cli/internal/core/ports/driven"
)

// DatabaseName is the file created inside the data directory.
const DatabaseName = "coding.db"

// Store owns the SQLite database holding saved credentials.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens dataDir/coding.db, creating and migrating it as needed.
// An empty dataDir means ~/.coding/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".coding", "data")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dataDir, DatabaseName)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.setup(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) setup() error {
	steps, err := migrations.Up()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if err := s.migrate(steps); err != nil {
		return err
	}
	// The database holds passwords and tokens.
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("restrict %s: %w", s.path, err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CredentialsStore exposes the credentials table.
func (s *Store) CredentialsStore() driven.CredentialsStore {
	return &credentialsStore{store: s}
}

// SchemaVersion returns the highest applied migration, 0 for a fresh file.
func (s *Store) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	return version, err
}

// migrate applies every step newer than the recorded schema version. Each
// step and its bookkeeping row commit together.
func (s *Store) migrate(steps []migrations.Migration) error {
	const ledger = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.Exec(ledger); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	current, err := s.SchemaVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, step := range steps {
		if step.Version <= current {
			continue
		}
		if err := s.apply(step); err != nil {
			return fmt.Errorf("migration %s: %w", step.Name, err)
		}
	}
	return nil
}

func (s *Store) apply(step migrations.Migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(step.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, step.Version); err != nil {
		return err
	}
	return tx.Commit()
}
