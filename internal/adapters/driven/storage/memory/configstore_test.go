package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())

	var _ driven.ConfigStore = store
}

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("hubspot.client_id", "abc"))
	require.NoError(t, store.Set("hubspot.client_id", "def"))

	val, ok := store.Get("hubspot.client_id")
	assert.True(t, ok)
	assert.Equal(t, "def", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", 7))
	require.NoError(t, store.Set("i64", int64(8)))
	require.NoError(t, store.Set("f", 9.0))
	require.NoError(t, store.Set("b", true))

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 7, store.GetInt("i"))
	assert.Equal(t, 8, store.GetInt("i64"))
	assert.Equal(t, 9, store.GetInt("f"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("s"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("list", []string{"a", "b"}))
	require.NoError(t, store.Set("any", []any{"a", 1, "b"}))
	require.NoError(t, store.Set("str", "s1 s2,s3"))

	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("list"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("any"))
	assert.Equal(t, []string{"s1", "s2", "s3"}, store.GetStringSlice("str"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_GetDuration(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("d", "5m"))
	require.NoError(t, store.Set("secs", 30))
	require.NoError(t, store.Set("raw", 2*time.Second))
	require.NoError(t, store.Set("bad", "later"))

	assert.Equal(t, 5*time.Minute, store.GetDuration("d"))
	assert.Equal(t, 30*time.Second, store.GetDuration("secs"))
	assert.Equal(t, 2*time.Second, store.GetDuration("raw"))
	assert.Equal(t, time.Duration(0), store.GetDuration("bad"))
	assert.Equal(t, time.Duration(0), store.GetDuration("missing"))
}

func TestConfigStore_SaveLoadNoOp(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("shared", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("shared")
		}()
	}
	wg.Wait()

	_, ok := store.Get("shared")
	assert.True(t, ok)
}
