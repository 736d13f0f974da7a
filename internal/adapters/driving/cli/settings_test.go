package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsShow(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.settings.Set("api.timeout_ms", "2500"))

	out, err := execute("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings")
	assert.Contains(t, out, "api.host: coding.net")
	assert.Contains(t, out, "api.timeout_ms: 2500")
	assert.Contains(t, out, "auth.login: (not set)")
}

func TestSettingsShow_JSON(t *testing.T) {
	newTestEnv(t)

	out, err := execute("settings", "show", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"api.host": "coding.net"`)
	assert.Contains(t, out, `"gist.private": "false"`)
}

func TestSettingsSet(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid pairs", func(t *testing.T) {
		out, err := execute("settings", "set", "api.host=e.coding.net", "git.clone_using_ssh = true")
		require.NoError(t, err)
		assert.Contains(t, out, "Updated 2 setting(s)")
		assert.Equal(t, "e.coding.net", env.config.GetString("api.host"))
		assert.True(t, env.config.GetBool("git.clone_using_ssh"))
	})

	t.Run("every failure is reported", func(t *testing.T) {
		_, err := execute("settings", "set", "api.timeout_ms=soon", "nope=1", "gist.private=true")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api.timeout_ms")
		assert.Contains(t, err.Error(), "nope")
		assert.True(t, env.config.GetBool("gist.private"))
	})

	t.Run("malformed pair", func(t *testing.T) {
		_, err := execute("settings", "set", "api.host")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected key=value")
	})
}
