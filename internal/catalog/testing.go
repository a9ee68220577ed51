package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotas/tabstash/internal/types"
)

// MemoryStore is an in-process Store. LoadErr and SaveErr, when set, are
// returned by the next calls to simulate I/O failures.
type MemoryStore struct {
	mu      sync.Mutex
	snaps   []types.Snapshot
	saves   int
	LoadErr error
	SaveErr error
}

// NewMemoryStore returns a MemoryStore seeded with snaps.
func NewMemoryStore(snaps ...types.Snapshot) *MemoryStore {
	return &MemoryStore{snaps: cloneAll(snaps)}
}

func (m *MemoryStore) Load(ctx context.Context) ([]types.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return cloneAll(m.snaps), nil
}

func (m *MemoryStore) Save(ctx context.Context, snaps []types.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snaps = cloneAll(snaps)
	m.saves++
	return nil
}

// Saves returns how many successful saves happened.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func cloneAll(snaps []types.Snapshot) []types.Snapshot {
	out := make([]types.Snapshot, len(snaps))
	for i, s := range snaps {
		s.Tabs = append([]types.Tab(nil), s.Tabs...)
		out[i] = s
	}
	return out
}

// RunStoreTests runs the standard store test suite against any Store implementation.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()
	created := time.Date(2026, time.January, 15, 10, 30, 0, 0, time.UTC)

	fixture := []types.Snapshot{
		{
			ID:        "b",
			CreatedAt: created.Add(time.Hour),
			Name:      "GitHub + Medium • Jan 15",
			Tabs: []types.Tab{
				{Title: "tabstash", URL: "https://github.com/lotas/tabstash", FavIconURL: "https://github.com/favicon.ico", Pinned: true},
				{Title: "Essay", URL: "https://medium.com/@a/essay"},
				{Title: "No URL"},
			},
		},
		{
			ID:        "a",
			CreatedAt: created,
			Name:      "Web • Jan 15",
			Tabs:      []types.Tab{{URL: "about:blank"}},
		},
	}

	t.Run("empty store loads nothing", func(t *testing.T) {
		store := newStore(t)
		snaps, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})

	t.Run("save then load round-trips in order", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, fixture))

		snaps, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.Equal(t, "b", snaps[0].ID)
		assert.Equal(t, "a", snaps[1].ID)
		assert.Equal(t, fixture[0].Name, snaps[0].Name)
		assert.True(t, fixture[0].CreatedAt.Equal(snaps[0].CreatedAt))
		assert.Equal(t, fixture[0].Tabs, snaps[0].Tabs)
		assert.Equal(t, fixture[1].Tabs, snaps[1].Tabs)
	})

	t.Run("save replaces the whole collection", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, fixture))
		require.NoError(t, store.Save(ctx, fixture[1:]))

		snaps, err := store.Load(ctx)
		require.NoError(t, err)
		require.Len(t, snaps, 1)
		assert.Equal(t, "a", snaps[0].ID)
	})

	t.Run("save empty collection", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, fixture))
		require.NoError(t, store.Save(ctx, nil))

		snaps, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})

	t.Run("works behind a catalog", func(t *testing.T) {
		c := New(newStore(t))
		s, err := c.Create(ctx, fixture[0].Tabs, created)
		require.NoError(t, err)
		require.NoError(t, c.Rename(ctx, s.ID, "Renamed"))

		got, err := c.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, fixture[0].Tabs, got.Tabs)

		require.NoError(t, c.Delete(ctx, s.ID))
		snaps, err := c.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})
}
