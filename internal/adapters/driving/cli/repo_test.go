package cli

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoList_OfUser(t *testing.T) {
	env := newTestEnv(t)
	env.loginWithToken(t, "good")
	env.mux.HandleFunc("GET /users/bob/repos", func(w http.ResponseWriter, r *http.Request) {
		if !requireToken(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, `[
			{"name":"demo","owner":{"login":"bob"},"description":"Demo project"},
			{"name":"secret","owner":{"login":"bob"},"private":true}
		]`)
	})

	t.Run("text", func(t *testing.T) {
		out, err := env.run("repo", "list", "bob")
		require.NoError(t, err)
		assert.Contains(t, out, "bob/demo")
		assert.Contains(t, out, "Demo project")
		assert.Contains(t, out, "bob/secret (private)")
	})

	t.Run("json", func(t *testing.T) {
		out, err := env.run("repo", "list", "bob", "--json")
		require.NoError(t, err)
		assert.Contains(t, out, `"Name": "secret"`)
		assert.Contains(t, out, `"Private": true`)
	})
}

func TestRepoDelete(t *testing.T) {
	env := newTestEnv(t)
	env.loginWithToken(t, "good")

	var deleted atomic.Bool
	env.mux.HandleFunc("DELETE /repos/bob/demo", func(w http.ResponseWriter, r *http.Request) {
		deleted.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("requires confirmation", func(t *testing.T) {
		_, err := env.run("repo", "delete", "bob/demo")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--yes")
		assert.False(t, deleted.Load())
	})

	t.Run("confirmed", func(t *testing.T) {
		out, err := env.run("repo", "delete", "bob/demo", "--yes")
		require.NoError(t, err)
		assert.True(t, deleted.Load())
		assert.Contains(t, out, "Deleted bob/demo")
	})

	t.Run("bad repository argument", func(t *testing.T) {
		_, err := env.run("repo", "delete", "demo", "--yes")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected owner/name")
	})
}

func TestRepoBranches(t *testing.T) {
	env := newTestEnv(t)
	env.loginWithToken(t, "good")
	env.mux.HandleFunc("GET /repos/bob/demo/branches", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[{"name":"master","commit":{"sha":"0123456789abcdef"}}]`)
	})

	out, err := env.run("repo", "branches", "bob/demo")

	require.NoError(t, err)
	assert.Contains(t, out, "master 0123456")
}

func TestRepoCloneURL(t *testing.T) {
	env := newTestEnv(t)

	out, err := execute("repo", "clone-url", "bob/demo")
	require.NoError(t, err)
	assert.Equal(t, "https://coding.net/bob/demo.git\n", out)

	out, err = execute("repo", "clone-url", "bob/demo", "--ssh")
	require.NoError(t, err)
	assert.Equal(t, "git@coding.net:bob/demo.git\n", out)

	require.NoError(t, env.settings.Set("git.clone_using_ssh", "true"))
	out, err = execute("repo", "clone-url", "bob/demo")
	require.NoError(t, err)
	assert.Equal(t, "git@coding.net:bob/demo.git\n", out)
}
