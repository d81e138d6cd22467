package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, string, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "crmlink-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, tempDir, cleanup
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, dir, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_Reopen(t *testing.T) {
	store, dir, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestStore_Get_Missing(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SetGetOverwrite(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "integration:hubspot:tokens:u:o", []byte(`{"a":1}`), 0))
	require.NoError(t, store.Set(ctx, "integration:hubspot:tokens:u:o", []byte(`{"a":2}`), 0))

	got, err := store.Get(ctx, "integration:hubspot:tokens:u:o")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))
}

func TestStore_TTL(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.SetClock(clock.Now)

	require.NoError(t, store.Set(ctx, "state", []byte("x"), 5*time.Minute))

	clock.now = clock.now.Add(4 * time.Minute)
	_, err := store.Get(ctx, "state")
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Minute)
	_, err = store.Get(ctx, "state")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Expire(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.SetClock(clock.Now)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, store.Expire(ctx, "k", time.Hour))

	clock.now = clock.now.Add(59 * time.Minute)
	_, err := store.Get(ctx, "k")
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Expire_MissingIsNoop(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Expire(ctx, "missing", time.Hour))

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_PurgeExpired(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	clock := &fixedClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.SetClock(clock.Now)

	require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Minute))
	require.NoError(t, store.Set(ctx, "long", []byte("v"), time.Hour))
	require.NoError(t, store.Set(ctx, "forever", []byte("v"), 0))

	clock.now = clock.now.Add(10 * time.Minute)
	n, err := store.PurgeExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM kv_entries").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestStore_ClosedDatabase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Get(context.Background(), "k")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
