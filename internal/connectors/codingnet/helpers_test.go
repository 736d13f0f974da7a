package codingnet

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coding/coding-cli/internal/core/domain"
)

func newServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}

func newConn(t *testing.T, auth *domain.AuthData) *Connection {
	t.Helper()
	conn, err := NewConnection(auth, ConnectionConfig{Reusable: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// fakeExecutor replays canned responses and records requested paths.
type fakeExecutor struct {
	mu        sync.Mutex
	responses []*Response
	errs      []error
	paths     []string
}

func (f *fakeExecutor) Execute(_ context.Context, r Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := len(f.paths)
	f.paths = append(f.paths, r.Path)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		return nil, fmt.Errorf("unexpected request %d: %s", i, r.Path)
	}
	return f.responses[i], nil
}

// fakePrompter answers prompts from funcs and counts calls.
type fakePrompter struct {
	mu        sync.Mutex
	creds     func(current *domain.AuthData) (*domain.AuthData, error)
	code      func(current *domain.AuthData) (string, error)
	credCalls int
	codeCalls int
}

func (p *fakePrompter) PromptCredentials(_ context.Context, current *domain.AuthData) (*domain.AuthData, error) {
	p.mu.Lock()
	p.credCalls++
	p.mu.Unlock()
	if p.creds == nil {
		return nil, domain.ErrCanceled
	}
	return p.creds(current)
}

func (p *fakePrompter) PromptStepUpCode(_ context.Context, current *domain.AuthData) (string, error) {
	p.mu.Lock()
	p.codeCalls++
	p.mu.Unlock()
	if p.code == nil {
		return "", domain.ErrCanceled
	}
	return p.code(current)
}

func (p *fakePrompter) calls() (creds, codes int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.credCalls, p.codeCalls
}

type indicatorFunc func() bool

func (f indicatorFunc) IsCanceled() bool { return f() }
