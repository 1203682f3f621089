package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// CachedStore is a write-through, read-through cache in front of another KV.
// Concurrent misses for the same key share a single backend read.
type CachedStore struct {
	next  KV
	cache *cache.Cache
	group singleflight.Group
}

// NewCached wraps next with an in-memory cache whose entries live for ttl.
func NewCached(next KV, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func cacheKey(collection Collection, key string) string {
	return string(collection) + "\x00" + key
}

// Get serves from cache, falling back to the wrapped store.
func (c *CachedStore) Get(ctx context.Context, collection Collection, key string) ([]byte, bool, error) {
	ck := cacheKey(collection, key)
	if v, ok := c.cache.Get(ck); ok {
		return cloneBytes(v.([]byte)), true, nil
	}

	type result struct {
		value []byte
		found bool
	}
	// The shared read is detached from caller cancellation; each caller
	// still stops waiting when its own ctx ends.
	fillCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(ck, func() (interface{}, error) {
		if v, ok := c.cache.Get(ck); ok {
			return result{value: v.([]byte), found: true}, nil
		}
		value, found, err := c.next.Get(fillCtx, collection, key)
		if err != nil {
			return nil, err
		}
		if found {
			// Add, not Set: a Put that raced this read has already cached the newer value.
			_ = c.cache.Add(ck, cloneBytes(value), cache.DefaultExpiration)
		}
		return result{value: value, found: found}, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		r := res.Val.(result)
		return cloneBytes(r.value), r.found, nil
	}
}

// Put writes through to the wrapped store and refreshes the cache.
func (c *CachedStore) Put(ctx context.Context, collection Collection, key string, value []byte) error {
	if err := c.next.Put(ctx, collection, key, value); err != nil {
		c.cache.Delete(cacheKey(collection, key))
		return err
	}
	c.cache.Set(cacheKey(collection, key), cloneBytes(value), cache.DefaultExpiration)
	return nil
}

// List always reads from the wrapped store.
func (c *CachedStore) List(ctx context.Context, collection Collection, prefix string) ([]Entry, error) {
	return c.next.List(ctx, collection, prefix)
}

// Ping checks the wrapped store.
func (c *CachedStore) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// Close flushes the cache and closes the wrapped store.
func (c *CachedStore) Close() error {
	c.cache.Flush()
	return c.next.Close()
}
