package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/core/ports/driven"
	"github.com/coding/coding-cli/internal/core/ports/driving"
)

// Ensure CredentialsService implements the interface.
var _ driving.CredentialsService = (*CredentialsService)(nil)

// CredentialsService manages stored credentials, one record per host.
type CredentialsService struct {
	store driven.CredentialsStore
}

// NewCredentialsService creates a new credentials service.
func NewCredentialsService(store driven.CredentialsStore) *CredentialsService {
	return &CredentialsService{
		store: store,
	}
}

// Save creates or updates the credentials for auth.Host().
func (s *CredentialsService) Save(ctx context.Context, auth *domain.AuthData, savePassword bool) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if auth == nil || auth.Host() == "" {
		return domain.ErrInvalidInput
	}

	creds := domain.CredentialsFromAuth(auth, savePassword)
	now := time.Now()

	existing, err := s.store.GetByHost(ctx, auth.Host())
	if err != nil {
		return fmt.Errorf("look up credentials: %w", err)
	}
	if existing != nil {
		creds.ID = existing.ID
		creds.CreatedAt = existing.CreatedAt
	} else {
		creds.ID = uuid.New().String()
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now

	return s.store.Save(ctx, creds)
}

// Load returns the stored credentials for a host.
// Anonymous credentials are returned when nothing is stored.
func (s *CredentialsService) Load(ctx context.Context, host string) (*domain.AuthData, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	creds, err := s.store.GetByHost(ctx, host)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return domain.NewAnonymousAuth(host), nil
	}
	return creds.ToAuthData(), nil
}

// List returns all stored credentials.
func (s *CredentialsService) List(ctx context.Context) ([]domain.Credentials, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// Delete removes the credentials for a host.
func (s *CredentialsService) Delete(ctx context.Context, host string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	creds, err := s.store.GetByHost(ctx, host)
	if err != nil {
		return err
	}
	if creds == nil {
		return domain.ErrNotFound
	}
	return s.store.Delete(ctx, creds.ID)
}

// Validate checks credentials before they are sent to the server.
func (s *CredentialsService) Validate(auth *domain.AuthData) error {
	return ValidateAuth(auth)
}

// authFields is a flat view of AuthData for validation rules.
type authFields struct {
	Host     string
	Type     domain.AuthType
	Login    string
	Password string
	Token    string
}

// ValidateAuth checks that credentials are complete for their type.
// Anonymous credentials are rejected with domain.ErrAnonymousAuth.
func ValidateAuth(auth *domain.AuthData) error {
	if auth == nil {
		return domain.ErrInvalidInput
	}
	if auth.Type() == domain.AuthTypeAnonymous {
		return domain.ErrAnonymousAuth
	}

	f := authFields{Host: auth.Host(), Type: auth.Type()}
	if basic, ok := auth.Basic(); ok {
		f.Login = basic.Login
		f.Password = basic.Password
	}
	if tok, ok := auth.Token(); ok {
		f.Token = tok.Token
	}

	isBasic := f.Type == domain.AuthTypeBasic
	isToken := f.Type == domain.AuthTypeToken

	err := validation.ValidateStruct(&f,
		validation.Field(&f.Host, validation.Required, validation.By(validHost)),
		validation.Field(&f.Type, validation.Required,
			validation.In(domain.AuthTypeBasic, domain.AuthTypeToken)),
		validation.Field(&f.Login, validation.When(isBasic, validation.Required)),
		validation.Field(&f.Password, validation.When(isBasic, validation.Required)),
		validation.Field(&f.Token, validation.When(isToken, validation.Required)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

var errBadHost = errors.New("must be a valid host name or URL")

func validHost(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	u, err := url.Parse("https://" + rest)
	if err != nil || u.Host == "" || strings.ContainsAny(u.Host, " \t") {
		return errBadHost
	}
	return nil
}
