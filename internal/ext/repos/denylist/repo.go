package denylist

import (
	"sync"
	"sync/atomic"

	"github.com/haukened/extguard/internal/ext/common/utils"
	"github.com/haukened/extguard/internal/ext/domain"
)

// repository implements Repository by composing a Store, a Bloom filter (via factory),
// and a DecisionCache. Reads go bloom → cache → store; writes are atomic snapshot swaps.
type repository struct {
	mu      sync.RWMutex
	store   Store
	cache   DecisionCache
	bloom   BloomFilter
	factory BloomFactory
	fpRate  float64

	decisions  atomic.Uint64
	bloomSkips atomic.Uint64
}

// NewRepository constructs a Repository.
// fpRate is the target false-positive rate for the Bloom filter when rebuilding.
func NewRepository(store Store, cache DecisionCache, factory BloomFactory, fpRate float64) Repository {
	return &repository{store: store, cache: cache, factory: factory, fpRate: fpRate}
}

// Decide returns a Decision for the provided extension.
// Lookups are ASCII case-insensitive and otherwise exact.
// An empty extension is always safe. On store errors the extension is treated as safe.
func (r *repository) Decide(ext string) domain.Decision {
	r.decisions.Add(1)
	ce := utils.LowerExtension(ext)
	if ce == "" {
		return domain.SafeDecision()
	}
	// 1) checkBloom: early-allow if definitively negative
	if !r.checkBloom(ce) {
		r.bloomSkips.Add(1)
		return safeFor(ce)
	}
	// 2) checkCache
	if d, ok := r.checkCache(ce); ok {
		return d
	}
	// 3) checkStore
	dec := r.checkStore(ce)
	// 4) updateCache
	r.updateCache(ce, dec)
	return dec
}

// UpdateAll performs an atomic snapshot update across store, bloom, and cache.
func (r *repository) UpdateAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error {
	// 1) Rebuild the store first.
	if err := r.store.RebuildAll(rules, version, updatedUnix); err != nil {
		return err
	}

	// 2) Build a fresh Bloom filter sized for the dataset.
	bf := r.factory.New(uint64(len(rules)), r.fpRate)
	for _, ru := range rules {
		if ru.Extension == "" {
			continue
		}
		bf.Add([]byte(ru.Extension))
	}

	// 3) Swap bloom and purge decision cache under lock.
	r.mu.Lock()
	r.bloom = bf
	r.cache.Purge()
	r.mu.Unlock()
	return nil
}

// Stats returns a snapshot of repository, cache and store counters.
func (r *repository) Stats() RepoStats {
	r.mu.RLock()
	cs := r.cache.Stats()
	r.mu.RUnlock()
	return RepoStats{
		Cache:      cs,
		Store:      r.store.Stats(),
		BloomSkips: r.bloomSkips.Load(),
		Decisions:  r.decisions.Load(),
	}
}

// checkBloom returns true if we should consult the store (maybe-positive),
// or false if we can early-allow (definitely negative). If no bloom is loaded,
// returns true to allow authoritative checking.
func (r *repository) checkBloom(ext string) bool {
	r.mu.RLock()
	bf := r.bloom
	r.mu.RUnlock()
	if bf == nil {
		return true
	}
	return bf.MightContain([]byte(ext))
}

// checkCache returns a cached decision when present.
func (r *repository) checkCache(ext string) (domain.Decision, bool) {
	r.mu.RLock()
	d, ok := r.cache.Get(ext)
	r.mu.RUnlock()
	return d, ok
}

// checkStore consults the authoritative store and materializes a decision.
func (r *repository) checkStore(ext string) domain.Decision {
	rule, ok, err := r.store.Lookup(ext)
	if err == nil && ok {
		return domain.MaliciousDecision(rule)
	}
	return safeFor(ext)
}

// updateCache writes the final decision.
func (r *repository) updateCache(ext string, dec domain.Decision) {
	r.mu.Lock()
	r.cache.Put(ext, dec)
	r.mu.Unlock()
}

func safeFor(ext string) domain.Decision {
	d := domain.SafeDecision()
	d.Extension = ext
	return d
}
