package driving

import (
	"context"

	"github.com/coding/coding-cli/internal/core/domain"
)

// CredentialsService manages stored credentials, one record per host.
type CredentialsService interface {
	// Save creates or updates the credentials for auth.Host().
	// The password is only kept when savePassword is set.
	Save(ctx context.Context, auth *domain.AuthData, savePassword bool) error

	// Load returns the stored credentials for a host, or anonymous
	// credentials when nothing is stored.
	Load(ctx context.Context, host string) (*domain.AuthData, error)

	// List returns all stored credentials.
	List(ctx context.Context) ([]domain.Credentials, error)

	// Delete removes the credentials for a host.
	Delete(ctx context.Context, host string) error

	// Validate checks credentials before they are sent to the server.
	Validate(auth *domain.AuthData) error
}
