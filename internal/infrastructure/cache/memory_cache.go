package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"moderator/internal/ports"
)

// MemoryCache is a process-local ports.Cache. Entries are lost on restart.
type MemoryCache struct {
	store *gocache.Cache
}

var _ ports.Cache = (*MemoryCache)(nil)

// NewMemoryCache starts a janitor that purges expired entries every cleanup interval.
func NewMemoryCache(cleanup time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(gocache.NoExpiration, cleanup)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	key, err := normalizeKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	raw, found := c.store.Get(key)
	if !found {
		return "", false, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, nil
	}
	return value, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	key, err := normalizeKey(ctx, key)
	if err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.store.Set(key, value, ttl)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(ctx, key)
	if err != nil {
		return err
	}

	c.store.Delete(key)
	return nil
}

func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}
