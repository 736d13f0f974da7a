package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore is an in-memory implementation of driven.CredentialsStore.
type CredentialsStore struct {
	mu    sync.RWMutex
	creds map[string]domain.Credentials
}

// NewCredentialsStore creates a new in-memory credentials store.
func NewCredentialsStore() *CredentialsStore {
	return &CredentialsStore{
		creds: make(map[string]domain.Credentials),
	}
}

// Save stores credentials, replacing any other record for the same host.
func (s *CredentialsStore) Save(_ context.Context, creds domain.Credentials) error {
	if creds.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.creds {
		if c.Host == creds.Host && id != creds.ID {
			delete(s.creds, id)
		}
	}
	s.creds[creds.ID] = creds
	return nil
}

// Get retrieves credentials by ID.
func (s *CredentialsStore) Get(_ context.Context, id string) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.creds[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// GetByHost retrieves credentials for a host, or nil.
func (s *CredentialsStore) GetByHost(_ context.Context, host string) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.creds {
		if c.Host == host {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

// List returns all credentials ordered by host.
func (s *CredentialsStore) List(_ context.Context) ([]domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Credentials, 0, len(s.creds))
	for _, c := range s.creds {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Host < out[j].Host })
	return out, nil
}

// Delete removes credentials by ID.
func (s *CredentialsStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.creds[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.creds, id)
	return nil
}
