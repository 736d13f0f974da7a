package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/core/ports/driven"
)

// credentialsStore implements driven.CredentialsStore.
type credentialsStore struct {
	store *Store
}

var _ driven.CredentialsStore = (*credentialsStore)(nil)

const credentialsColumns = `id, host, auth_type, login, password, token, use_proxy, created_at, updated_at`

// Save stores or updates credentials. The host column is unique, so a
// record with a new ID for an existing host replaces the old one.
func (s *credentialsStore) Save(ctx context.Context, creds domain.Credentials) error {
	if creds.ID == "" || creds.Host == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO credentials (`+credentialsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(host) DO UPDATE SET
			id = excluded.id,
			auth_type = excluded.auth_type,
			login = excluded.login,
			password = excluded.password,
			token = excluded.token,
			use_proxy = excluded.use_proxy,
			updated_at = excluded.updated_at
	`, creds.ID, creds.Host, string(creds.AuthType), creds.Login, creds.Password,
		creds.Token, creds.UseProxy, creds.CreatedAt, creds.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Get retrieves credentials by ID.
func (s *credentialsStore) Get(ctx context.Context, id string) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+credentialsColumns+` FROM credentials WHERE id = ?`, id)
	return scanCredentials(row)
}

// GetByHost retrieves credentials for a host.
func (s *credentialsStore) GetByHost(ctx context.Context, host string) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+credentialsColumns+` FROM credentials WHERE host = ?`, host)

	creds, err := scanCredentials(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil // No credentials for this host is valid
	}
	return creds, err
}

// List returns all credentials ordered by host.
func (s *credentialsStore) List(ctx context.Context) ([]domain.Credentials, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+credentialsColumns+` FROM credentials ORDER BY host`)
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}
	defer rows.Close()

	var out []domain.Credentials
	for rows.Next() {
		creds, err := scanCredentials(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *creds)
	}
	return out, rows.Err()
}

// Delete removes credentials by ID.
func (s *credentialsStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM credentials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCredentials scans a single credentials row.
func scanCredentials(row rowScanner) (*domain.Credentials, error) {
	var creds domain.Credentials
	var authType string

	if err := row.Scan(&creds.ID, &creds.Host, &authType, &creds.Login, &creds.Password,
		&creds.Token, &creds.UseProxy, &creds.CreatedAt, &creds.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning credentials: %w", err)
	}
	creds.AuthType = domain.AuthType(authType)

	return &creds, nil
}
