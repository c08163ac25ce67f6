package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/haukened/extguard/internal/ext/domain"
	"github.com/haukened/extguard/internal/ext/repos/denylist"
)

// decisionCache is an LRU-backed implementation of denylist.DecisionCache.
// It tracks basic metrics: hits, misses, and evictions.
type decisionCache struct {
	lru       *lru.Cache[string, domain.Decision]
	capacity  int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// disabledCache is a no-op DecisionCache used when size <= 0.
type disabledCache struct{}

// New creates a new DecisionCache with the given capacity. If size <= 0, a
// disabled no-op cache is returned that always misses and tracks no metrics.
func New(size int) (denylist.DecisionCache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	dc := &decisionCache{capacity: size}
	// NewWithEvict observes evictions, including Purge-induced ones.
	cache, err := lru.NewWithEvict(size, func(_ string, _ domain.Decision) {
		dc.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	dc.lru = cache
	return dc, nil
}

// Get looks up a decision by extension. When found, increments hits; otherwise increments misses.
func (c *decisionCache) Get(ext string) (domain.Decision, bool) {
	if val, ok := c.lru.Get(ext); ok {
		c.hits.Add(1)
		return val, true
	}
	c.misses.Add(1)
	return domain.Decision{}, false
}

// Put stores a decision by extension.
func (c *decisionCache) Put(ext string, d domain.Decision) {
	c.lru.Add(ext, d)
}

// Len returns the number of entries in the cache.
func (c *decisionCache) Len() int { return c.lru.Len() }

// Purge clears all entries. Evictions are counted via the eviction callback.
func (c *decisionCache) Purge() { c.lru.Purge() }

// Stats returns a snapshot of the cache counters.
func (c *decisionCache) Stats() denylist.CacheStats {
	return denylist.CacheStats{
		Capacity:  c.capacity,
		Size:      c.lru.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (d *disabledCache) Get(string) (domain.Decision, bool) { return domain.Decision{}, false }

func (d *disabledCache) Put(string, domain.Decision) {}

func (d *disabledCache) Len() int { return 0 }

func (d *disabledCache) Purge() {}

func (d *disabledCache) Stats() denylist.CacheStats { return denylist.CacheStats{} }

var _ denylist.DecisionCache = (*decisionCache)(nil)
var _ denylist.DecisionCache = (*disabledCache)(nil)
