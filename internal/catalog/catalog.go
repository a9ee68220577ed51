// Package catalog owns the snapshot collection: creating, renaming, deleting
// and listing snapshots over a whole-collection Store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lotas/tabstash/internal/applog"
	"github.com/lotas/tabstash/internal/snapshot"
	"github.com/lotas/tabstash/internal/types"
)

var (
	// ErrNotFound is returned when no snapshot has the requested id.
	ErrNotFound = errors.New("snapshot not found")
	// ErrNoTabs is returned when a capture selects no tabs.
	ErrNoTabs = errors.New("no tabs selected")
)

// Store persists the full snapshot collection. Save replaces everything.
type Store interface {
	Load(ctx context.Context) ([]types.Snapshot, error)
	Save(ctx context.Context, snaps []types.Snapshot) error
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithIDFunc overrides snapshot id generation.
func WithIDFunc(fn func() string) Option {
	return func(c *Catalog) { c.newID = fn }
}

// Catalog runs read-modify-write mutations against a Store. Mutations on a
// single Catalog are serialized; two Catalogs sharing a Store are not
// coordinated with each other.
type Catalog struct {
	mu    sync.Mutex
	store Store
	newID func() string
}

// New returns a Catalog backed by store.
func New(store Store, opts ...Option) *Catalog {
	c := &Catalog{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every snapshot, most recent first.
func (c *Catalog) List(ctx context.Context) ([]types.Snapshot, error) {
	snaps, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	return snaps, nil
}

// Get returns the snapshot with the given id.
func (c *Catalog) Get(ctx context.Context, id string) (types.Snapshot, error) {
	snaps, err := c.List(ctx)
	if err != nil {
		return types.Snapshot{}, err
	}
	s, ok := Find(snaps, id)
	if !ok {
		return types.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Create stores a new snapshot of tabs at the front of the collection. Its
// name is derived from the tabs' domains.
func (c *Catalog) Create(ctx context.Context, tabs []types.Tab, createdAt time.Time) (types.Snapshot, error) {
	if len(tabs) == 0 {
		return types.Snapshot{}, ErrNoTabs
	}
	s := types.Snapshot{
		ID:        c.newID(),
		CreatedAt: createdAt,
		Name:      snapshot.NameFor(tabs, createdAt),
		Tabs:      append([]types.Tab(nil), tabs...),
	}

	err := c.mutate(ctx, func(snaps []types.Snapshot) ([]types.Snapshot, bool) {
		return Prepend(snaps, s), true
	})
	if err != nil {
		return types.Snapshot{}, err
	}
	applog.Info("catalog.create", "id", s.ID, "name", s.Name, "tabs", len(s.Tabs))
	return s, nil
}

// Rename replaces the name of snapshot id. A blank name or an unknown id is
// a no-op and nothing is written.
func (c *Catalog) Rename(ctx context.Context, id, name string) error {
	return c.mutate(ctx, func(snaps []types.Snapshot) ([]types.Snapshot, bool) {
		out, changed := Renamed(snaps, id, name)
		if changed {
			applog.Info("catalog.rename", "id", id)
		}
		return out, changed
	})
}

// Delete removes snapshot id. Deleting an absent id succeeds.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	return c.mutate(ctx, func(snaps []types.Snapshot) ([]types.Snapshot, bool) {
		out, removed := Without(snaps, id)
		if removed {
			applog.Info("catalog.delete", "id", id)
		}
		return out, removed
	})
}

// mutate performs load, fn, save under the catalog lock. Save is skipped
// when fn reports no change.
func (c *Catalog) mutate(ctx context.Context, fn func([]types.Snapshot) ([]types.Snapshot, bool)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snaps, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}
	updated, changed := fn(snaps)
	if !changed {
		return nil
	}
	if err := c.store.Save(ctx, updated); err != nil {
		applog.Error("catalog.save", err)
		return fmt.Errorf("save snapshots: %w", err)
	}
	return nil
}
