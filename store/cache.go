package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedStore is a read-through cache in front of another Store. Writes go
// to the backend first and then refresh the cache.
type CachedStore struct {
	next  Store
	cache *cache.Cache
}

// NewCachedStore wraps next with a TTL cache. ttl <= 0 keeps entries until
// they are overwritten or deleted.
func NewCachedStore(next Store, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		return &CachedStore{next: next, cache: cache.New(cache.NoExpiration, 0)}
	}
	return &CachedStore{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *CachedStore) Save(ctx context.Context, id string, doc []byte) error {
	if err := c.next.Save(ctx, id, doc); err != nil {
		c.cache.Delete(id)
		return err
	}
	c.cache.SetDefault(id, append([]byte(nil), doc...))
	return nil
}

func (c *CachedStore) Load(ctx context.Context, id string) ([]byte, error) {
	if v, ok := c.cache.Get(id); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}
	doc, err := c.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(id, append([]byte(nil), doc...))
	return doc, nil
}

func (c *CachedStore) Delete(ctx context.Context, id string) error {
	c.cache.Delete(id)
	return c.next.Delete(ctx, id)
}

func (c *CachedStore) List(ctx context.Context) ([]string, error) {
	return c.next.List(ctx)
}

// Cached reports how many snapshots are currently held in the cache.
func (c *CachedStore) Cached() int {
	return c.cache.ItemCount()
}
