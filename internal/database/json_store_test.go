package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depot-router/internal/testutil"
)

func setupTestStore(t *testing.T) (*JSONStore, string) {
	path := filepath.Join(t.TempDir(), "runs.json")
	store, err := NewJSONStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestJSONStoreCreatesFile(t *testing.T) {
	store, path := setupTestStore(t)

	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.NoError(t, store.HealthCheck(context.Background()))
}

func TestJSONRunCreateAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	run := testutil.SampleRun("run-a", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	created, err := store.Runs().Create(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, "run-a", created.ID)

	got, err := store.Runs().GetByID(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, run.Best, got.Best)
	assert.Equal(t, run.History, got.History)
	assert.Equal(t, run.Instance, got.Instance)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))

	// the returned run is a copy
	got.Best[0][1] = 99
	again, err := store.Runs().GetByID(ctx, "run-a")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Best[0][1])
}

func TestJSONRunCreateRejectsDuplicates(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Runs().Create(ctx, testutil.SampleRun("dup", time.Now()))
	require.NoError(t, err)
	_, err = store.Runs().Create(ctx, testutil.SampleRun("dup", time.Now()))
	assert.Error(t, err)

	_, err = store.Runs().Create(ctx, testutil.SampleRun("", time.Now()))
	assert.Error(t, err)
}

func TestJSONRunListNewestFirst(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	runs := []struct {
		id     string
		offset time.Duration
	}{
		{"old", 0},
		{"newest", 2 * time.Hour},
		{"middle", time.Hour},
	}
	for _, r := range runs {
		_, err := store.Runs().Create(ctx, testutil.SampleRun(r.id, base.Add(r.offset)))
		require.NoError(t, err)
	}

	all, total, err := store.Runs().List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].ID)
	assert.Equal(t, "middle", all[1].ID)
	assert.Equal(t, "old", all[2].ID)
	assert.Equal(t, 6, all[0].Customers)

	page, total, err := store.Runs().List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "middle", page[0].ID)

	empty, _, err := store.Runs().List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestJSONRunDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Runs().Create(ctx, testutil.SampleRun("gone", time.Now()))
	require.NoError(t, err)

	require.NoError(t, store.Runs().Delete(ctx, "gone"))
	_, err = store.Runs().GetByID(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Runs().Delete(ctx, "gone"), ErrNotFound)
}

func TestJSONStoreReopen(t *testing.T) {
	store, path := setupTestStore(t)
	ctx := context.Background()

	_, err := store.Runs().Create(ctx, testutil.SampleRun("persisted", time.Now()))
	require.NoError(t, err)

	reopened, err := NewJSONStore(path)
	require.NoError(t, err)
	run, err := reopened.Runs().GetByID(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, 31.5, run.BestFitness)
}

func TestIsJSONPath(t *testing.T) {
	assert.True(t, IsJSONPath("/tmp/runs.json"))
	assert.True(t, IsJSONPath("RUNS.JSON"))
	assert.False(t, IsJSONPath("/tmp/runs.db"))
	assert.False(t, IsJSONPath(":memory:"))
}

func TestResolveDBPath(t *testing.T) {
	path, err := ResolveDBPath("/data/custom.db")
	require.NoError(t, err)
	assert.Equal(t, "/data/custom.db", path)
}
