package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/coding/coding-cli/internal/adapters/driven/storage/memory"
	"github.com/coding/coding-cli/internal/connectors/codingnet"
	"github.com/coding/coding-cli/internal/core/domain"
	"github.com/coding/coding-cli/internal/core/services"
)

// testEnv is a configured command tree talking to a fake server.
type testEnv struct {
	srv      *httptest.Server
	mux      *http.ServeMux
	config   *memory.ConfigStore
	settings *services.SettingsService
	creds    *services.CredentialsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	config := memory.NewConfigStore()
	env := &testEnv{
		srv:      srv,
		mux:      mux,
		config:   config,
		settings: services.NewSettingsService(config),
		creds:    services.NewCredentialsService(memory.NewCredentialsStore()),
	}
	Configure(Dependencies{Settings: env.settings, Credentials: env.creds})
	t.Cleanup(func() { Configure(Dependencies{}) })

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token good" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
			return
		}
		w.Header().Set(codingnet.HeaderOAuthScopes, "repo, gist")
		writeJSON(w, http.StatusOK, `{"login":"alice","name":"Alice","email":"alice@example.com","plan":{"name":"free","private_repos":5}}`)
	})
	return env
}

// loginWithToken stores token credentials for the fake server.
func (e *testEnv) loginWithToken(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, e.creds.Save(context.Background(), domain.NewTokenAuth(e.srv.URL, token, true), false))
}

// run executes the root command against the fake server.
func (e *testEnv) run(args ...string) (string, error) {
	return execute(append(args, "--host", e.srv.URL)...)
}

func execute(args ...string) (string, error) {
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag to its default so runs do not leak.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}

func requireToken(w http.ResponseWriter, r *http.Request) bool {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "token ") {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Requires authentication"}`)
		return false
	}
	return true
}

// fakePrompter answers with fixed credentials and code.
type fakePrompter struct {
	auth  *domain.AuthData
	code  string
	calls int
	asked *domain.AuthData
}

func (p *fakePrompter) PromptCredentials(_ context.Context, current *domain.AuthData) (*domain.AuthData, error) {
	p.calls++
	p.asked = current
	if p.auth == nil {
		return nil, domain.ErrCanceled
	}
	return p.auth, nil
}

func (p *fakePrompter) PromptStepUpCode(_ context.Context, _ *domain.AuthData) (string, error) {
	if p.code == "" {
		return "", domain.ErrCanceled
	}
	return p.code, nil
}
