package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.host", "e.coding.net"))
	require.NoError(t, store.Set("api.timeout_ms", 2500))
	require.NoError(t, store.Set("api.requests_per_second", 1.5))
	require.NoError(t, store.Set("auth.save_password", true))

	assert.Equal(t, "e.coding.net", store.GetString("api.host"))
	assert.Equal(t, 2500, store.GetInt("api.timeout_ms"))
	assert.InDelta(t, 1.5, store.GetFloat("api.requests_per_second"), 0.0001)
	assert.InDelta(t, 2500.0, store.GetFloat("api.timeout_ms"), 0.0001)
	assert.True(t, store.GetBool("auth.save_password"))

	assert.Empty(t, store.GetString("api.timeout_ms"))
	assert.Zero(t, store.GetInt("api.host"))
	assert.False(t, store.GetBool("api.host"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("api.host", "e.coding.net"))
	require.NoError(t, store.Set("api.timeout_ms", 1200))
	require.NoError(t, store.Set("git.clone_using_ssh", true))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "e.coding.net", reloaded.GetString("api.host"))
	assert.Equal(t, 1200, reloaded.GetInt("api.timeout_ms"), "TOML integers come back as int64")
	assert.True(t, reloaded.GetBool("git.clone_using_ssh"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("api.host", "coding.net"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	assert.Contains(t, string(raw), "[api]")
	assert.Regexp(t, `host = ['"]coding\.net['"]`, string(raw))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("auth.login", "alice"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("api.host")
	assert.False(t, ok)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("api.host", "coding.net"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("api.host", "coding.net"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("auth.login", "alice"))
	_, ok := store.Get("auth.login")
	assert.False(t, ok, "failed write must not leave the value behind")
	assert.Equal(t, "coding.net", store.GetString("api.host"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.host", "coding.net"))

	assert.Error(t, store.Set("channel", make(chan int)))
	assert.Error(t, store.Set("api.host", make(chan int)))
	assert.Equal(t, "coding.net", store.GetString("api.host"))

	require.NoError(t, store.Set("auth.login", "alice"))
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"api":  map[string]any{"host": "coding.net", "timeout_ms": int64(5000)},
		"root": "value",
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{
		"api.host":       "coding.net",
		"api.timeout_ms": int64(5000),
		"root":           "value",
	}, flat)

	assert.Equal(t, nested, nestMap(flat))
}

func TestNestMap_ValueWinsOverTable(t *testing.T) {
	got := nestMap(map[string]any{"api": "flat", "api.host": "coding.net"})
	assert.Equal(t, "flat", got["api"])
}
