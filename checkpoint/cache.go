package checkpoint

import (
	"context"
	"fmt"
	"io"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore fronts a slower Store with a bounded LRU of recently saved or
// loaded snapshots. Writes go through to the backing store first; the cache
// is only updated once the write succeeded.
type CachedStore struct {
	store Store
	cache *lru.Cache[string, Snapshot]
}

// NewCachedStore wraps store with an LRU holding up to size snapshots.
func NewCachedStore(store Store, size int) (*CachedStore, error) {
	cache, err := lru.New[string, Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("create snapshot cache: %w", err)
	}
	return &CachedStore{store: store, cache: cache}, nil
}

func (c *CachedStore) Save(ctx context.Context, snap Snapshot) error {
	if err := c.store.Save(ctx, snap); err != nil {
		return err
	}
	snap.Data = slices.Clone(snap.Data)
	c.cache.Add(snap.ID, snap)
	return nil
}

func (c *CachedStore) Load(ctx context.Context, id string) (Snapshot, error) {
	if snap, ok := c.cache.Get(id); ok {
		snap.Data = slices.Clone(snap.Data)
		return snap, nil
	}

	snap, err := c.store.Load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	c.cache.Add(id, snap)

	snap.Data = slices.Clone(snap.Data)
	return snap, nil
}

func (c *CachedStore) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.cache.Remove(id)
	return nil
}

func (c *CachedStore) List(ctx context.Context) ([]string, error) {
	return c.store.List(ctx)
}

// Cached reports whether id is currently held in the LRU.
func (c *CachedStore) Cached(id string) bool {
	return c.cache.Contains(id)
}

// Close closes the backing store when it holds resources.
func (c *CachedStore) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
