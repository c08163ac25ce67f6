package denylist

import "github.com/haukened/extguard/internal/ext/domain"

// BloomSizer computes Bloom filter parameters from capacity (n) and target FP rate (p).
// It returns m (number of bits) and k (number of hash functions).
type BloomSizer interface {
	Size(n uint64, p float64) (m uint64, k uint8)
}

// BloomFilter is the minimal interface the repository needs from Bloom filters.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
	Clear()
}

// BloomFactory creates BloomFilters sized for a dataset.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// DecisionCache caches decisions by canonical extension.
type DecisionCache interface {
	Get(ext string) (domain.Decision, bool)
	Put(ext string, d domain.Decision)
	Len() int
	Purge()
	Stats() CacheStats
}

// Store is the authoritative index of deny rules.
// - Lookup: rule for an exact canonical extension
// - RebuildAll: atomically replace all rules and metadata
// - Stats: counts and metadata; Close: release resources
type Store interface {
	Lookup(ext string) (domain.DenyRule, bool, error)
	RebuildAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error
	Stats() StoreStats
	Close() error
}

// Repository is the composition layer that wires bloom → cache → store.
// Decide returns a value-type Decision for a canonical extension.
// UpdateAll rebuilds the store, refreshes the Bloom filter, and clears the cache.
type Repository interface {
	Decide(ext string) domain.Decision
	UpdateAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error
	Stats() RepoStats
}
