package lru

import (
	"testing"

	"github.com/haukened/extguard/internal/ext/domain"
	"github.com/haukened/extguard/internal/ext/repos/denylist"
)

func TestDecisionCache_HitMissAndPut(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	d := domain.Decision{Malicious: true, Extension: "exe", MatchedRule: "exe"}

	if _, ok := c.Get("exe"); ok {
		t.Fatalf("expected miss before put")
	}

	c.Put("exe", d)

	got, ok := c.Get("exe")
	if !ok || !got.Malicious || got.MatchedRule != "exe" {
		t.Fatalf("unexpected get: ok=%v got=%+v", ok, got)
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Capacity != 2 || st.Size != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestDecisionCache_EvictionAndLen(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("exe", domain.Decision{Malicious: true})
	c.Put("scr", domain.Decision{Malicious: true})
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2", got)
	}
	c.Put("txt", domain.Decision{})
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2 after eviction", got)
	}
	if _, ok := c.Get("exe"); ok {
		t.Fatalf("expected least recently used entry to be evicted")
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Fatalf("evictions=%d want=1", got)
	}
}

func TestDecisionCache_PurgeCountsEvictions(t *testing.T) {
	c, err := New(3)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a", domain.Decision{})
	c.Put("b", domain.Decision{})
	c.Put("c", domain.Decision{})

	c.Purge()
	if got := c.Len(); got != 0 {
		t.Fatalf("len=%d want=0 after purge", got)
	}
	if got := c.Stats().Evictions; got != 3 {
		t.Fatalf("evictions=%d want=3 after purge", got)
	}
}

func TestDecisionCache_Disabled(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, ok := c.Get("exe"); ok {
		t.Fatalf("expected miss in disabled cache")
	}
	c.Put("exe", domain.Decision{Malicious: true})
	if got := c.Len(); got != 0 {
		t.Fatalf("len=%d want=0 for disabled", got)
	}
	c.Purge()
	if st := c.Stats(); st != (denylist.CacheStats{}) {
		t.Fatalf("expected zero stats, got %+v", st)
	}
}
