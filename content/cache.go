package content

import (
	"context"
	"sync"
	"time"
)

// Cache is an in-memory, TTL-bounded copy of a Loader's snapshot. Once a
// snapshot has loaded, a failed reload keeps serving it.
type Cache struct {
	mu      sync.RWMutex
	snap    Snapshot
	has     bool // snap holds a successfully loaded snapshot
	fresh   bool // snap may be served without reloading
	fetched time.Time
	ttl     time.Duration
	src     Loader
	now     func() time.Time

	// OnError, when set, receives reload errors that were answered with the
	// previous snapshot.
	OnError func(err error)
}

// NewCache creates a Cache backed by src. A ttl of zero or less keeps the
// snapshot until Invalidate is called.
func NewCache(src Loader, ttl time.Duration) *Cache {
	return &Cache{src: src, ttl: ttl, now: time.Now}
}

func (c *Cache) valid() bool {
	if !c.fresh {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.fetched) < c.ttl
}

// Invalidate makes the next read reload from the source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.fresh = false
	c.mu.Unlock()
}

// Load implements Loader. It tries a read lock first and only takes the
// write lock when a reload is needed. Errors are returned only when no
// snapshot has ever loaded.
func (c *Cache) Load(ctx context.Context) (Snapshot, error) {
	c.mu.RLock()
	if c.valid() {
		snap := c.snap
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.snap, nil
	}
	snap, err := c.src.Load(ctx)
	if err != nil {
		if !c.has {
			return Snapshot{}, err
		}
		if c.OnError != nil {
			c.OnError(err)
		}
		// Wait a full ttl before trying the broken source again.
		c.fresh = true
		c.fetched = c.now()
		return c.snap, nil
	}
	c.snap = snap
	c.has = true
	c.fresh = true
	c.fetched = c.now()
	return snap, nil
}

// Post returns a single post by path from the cached snapshot.
func (c *Cache) Post(ctx context.Context, path string) (Post, error) {
	snap, err := c.Load(ctx)
	if err != nil {
		return Post{}, err
	}
	return snap.PostByPath(path)
}
