package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0600))
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "crmlink")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "[hubspot\nclient_id = ")

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_LoadFlattensTables(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
[hubspot]
client_id = "abc"
scopes = ["s1", "s2"]
timeout = "10s"

[store]
backend = "redis"
credential_ttl = 3600

[server]
cors = true
`)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "abc", store.GetString("hubspot.client_id"))
	assert.Equal(t, []string{"s1", "s2"}, store.GetStringSlice("hubspot.scopes"))
	assert.Equal(t, 10*time.Second, store.GetDuration("hubspot.timeout"))
	assert.Equal(t, "redis", store.GetString("store.backend"))
	assert.Equal(t, 3600, store.GetInt("store.credential_ttl"))
	assert.Equal(t, time.Hour, store.GetDuration("store.credential_ttl"))
	assert.True(t, store.GetBool("server.cors"))
}

func TestConfigStore_SetPersistsNested(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("hubspot.client_id", "abc"))
	require.NoError(t, store.Set("log.level", "debug"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[hubspot]")
	assert.Contains(t, string(data), "[log]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "abc", reloaded.GetString("hubspot.client_id"))
	assert.Equal(t, "debug", reloaded.GetString("log.level"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("hubspot.client_secret", "shh"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("n", int64(3)))

	assert.Equal(t, "", store.GetString("n"))
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 3, store.GetInt("n"))
	assert.False(t, store.GetBool("n"))
}

func TestConfigStore_GetStringSlice_String(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("hubspot.scopes", "s1 s2,s3"))

	assert.Equal(t, []string{"s1", "s2", "s3"}, store.GetStringSlice("hubspot.scopes"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_GetDuration(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		value any
		want  time.Duration
	}{
		{"720h", 720 * time.Hour},
		{"300", 5 * time.Minute},
		{int64(60), time.Minute},
		{1.5, 1500 * time.Millisecond},
		{"soon", 0},
		{true, 0},
	}

	for _, tt := range tests {
		require.NoError(t, store.Set("d", tt.value))
		assert.Equal(t, tt.want, store.GetDuration("d"), "value %v", tt.value)
	}
	assert.Equal(t, time.Duration(0), store.GetDuration("missing"))
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, flat)
	assert.Equal(t, nested, nestMap(flat))
}
