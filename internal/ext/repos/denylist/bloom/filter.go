package bloom

import (
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/haukened/extguard/internal/ext/repos/denylist"
)

// filter wraps a bits-and-blooms BloomFilter with a RWMutex.
// MightContain may run concurrently; Add and Clear are serialized.
type filter struct {
	mu sync.RWMutex
	bf *bitsbloom.BloomFilter
}

func (f *filter) Add(key []byte) {
	f.mu.Lock()
	f.bf.Add(key)
	f.mu.Unlock()
}

func (f *filter) MightContain(key []byte) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.Test(key)
}

func (f *filter) Clear() {
	f.mu.Lock()
	f.bf.ClearAll()
	f.mu.Unlock()
}

var _ denylist.BloomFilter = (*filter)(nil)
