package codingnet

import (
	"sync"

	"github.com/coding/coding-cli/internal/core/domain"
)

// AuthHolder shares the current credentials between concurrent tasks.
// Replacements go through Transaction so that when several tasks fail
// with the same stale credentials only the first one prompts the user.
type AuthHolder struct {
	mu   sync.Mutex
	auth *domain.AuthData
}

// NewAuthHolder creates a holder with an initial value.
func NewAuthHolder(auth *domain.AuthData) *AuthHolder {
	return &AuthHolder{auth: auth}
}

// Get returns the current credentials.
func (h *AuthHolder) Get() *domain.AuthData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.auth
}

// Transaction replaces the held value with the result of fn, but only if
// the held value is still expected. The lock is held while fn runs, so
// other callers wait and then see the new value. An error from fn leaves
// the value unchanged.
func (h *AuthHolder) Transaction(expected *domain.AuthData, fn func() (*domain.AuthData, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.auth != expected {
		return nil
	}

	next, err := fn()
	if err != nil {
		return err
	}
	if next != nil {
		h.auth = next
	}
	return nil
}
