package driven

import (
	"context"

	"github.com/coding/coding-cli/internal/core/domain"
)

// CredentialsStore keeps saved credentials, at most one record per host.
// Saving a record for a host that already has one replaces it.
type CredentialsStore interface {
	Save(ctx context.Context, creds domain.Credentials) error

	// Get returns domain.ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (*domain.Credentials, error)

	// GetByHost returns nil, nil when the host has no record.
	GetByHost(ctx context.Context, host string) (*domain.Credentials, error)

	// List orders records by host.
	List(ctx context.Context) ([]domain.Credentials, error)

	// Delete returns domain.ErrNotFound for an unknown id.
	Delete(ctx context.Context, id string) error
}
