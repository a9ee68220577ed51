package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotas/tabstash/internal/types"
)

var captured = time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)

func sequentialIDs() Option {
	n := 0
	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("snap-%d", n)
	})
}

func TestMemoryStoreContract(t *testing.T) {
	RunStoreTests(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, sequentialIDs())

	first, err := c.Create(ctx, []types.Tab{{URL: "https://github.com/a"}}, captured)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", first.ID)
	assert.Equal(t, "GitHub • Oct 18", first.Name)

	second, err := c.Create(ctx, []types.Tab{{URL: "https://www.youtube.com/watch"}}, captured.Add(time.Minute))
	require.NoError(t, err)

	snaps, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, second.ID, snaps[0].ID, "new snapshots are prepended")
	assert.Equal(t, first.ID, snaps[1].ID)
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		s, err := c.Create(ctx, []types.Tab{{URL: "https://go.dev"}}, captured)
		require.NoError(t, err)
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestCreateRejectsEmptySelection(t *testing.T) {
	store := NewMemoryStore()
	c := New(store)

	_, err := c.Create(context.Background(), nil, captured)
	assert.ErrorIs(t, err, ErrNoTabs)
	assert.Equal(t, 0, store.Saves())
}

func TestCreateCopiesTabs(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())
	tabs := []types.Tab{{URL: "https://go.dev", Title: "Go"}}

	s, err := c.Create(ctx, tabs, captured)
	require.NoError(t, err)
	tabs[0].Title = "mutated"

	got, err := c.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Tabs[0].Title)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(
		types.Snapshot{ID: "a", Name: "Alpha"},
		types.Snapshot{ID: "b", Name: "Beta"},
	)
	c := New(store)

	t.Run("blank names are ignored", func(t *testing.T) {
		require.NoError(t, c.Rename(ctx, "a", "   "))
		require.NoError(t, c.Rename(ctx, "a", ""))
		got, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "Alpha", got.Name)
		assert.Equal(t, 0, store.Saves())
	})

	t.Run("name is trimmed and only the target changes", func(t *testing.T) {
		require.NoError(t, c.Rename(ctx, "a", "  Foo "))
		snaps, err := c.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Foo", snaps[0].Name)
		assert.Equal(t, "Beta", snaps[1].Name)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		saves := store.Saves()
		require.NoError(t, c.Rename(ctx, "missing", "Foo"))
		assert.Equal(t, saves, store.Saves())
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(
		types.Snapshot{ID: "a"},
		types.Snapshot{ID: "b"},
		types.Snapshot{ID: "c"},
	)
	c := New(store)

	require.NoError(t, c.Delete(ctx, "b"))
	require.NoError(t, c.Delete(ctx, "b"), "delete is idempotent")

	snaps, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "a", snaps[0].ID)
	assert.Equal(t, "c", snaps[1].ID)

	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFailedSaveLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(types.Snapshot{ID: "a", Name: "Alpha"})
	c := New(store)

	boom := errors.New("disk full")
	store.SaveErr = boom

	err := c.Rename(ctx, "a", "Beta")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	store.SaveErr = nil
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
}

func TestLoadFailure(t *testing.T) {
	store := NewMemoryStore()
	store.LoadErr = errors.New("locked")
	c := New(store)

	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, store.LoadErr)
	_, err = c.Create(context.Background(), []types.Tab{{URL: "https://go.dev"}}, captured)
	assert.ErrorIs(t, err, store.LoadErr)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store)

	const n = 25
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := c.Create(ctx, []types.Tab{{URL: "https://go.dev"}}, captured)
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	snaps, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, n, "no lost updates")
}
