package denylist

import (
	"errors"
	"testing"
	"time"

	"github.com/haukened/extguard/internal/ext/domain"
)

// --- fakes ---

type fakeStore struct {
	rules        map[string]domain.DenyRule
	lookupErr    error
	lookupCalls  int
	rebuildCalls int
	rebuildErr   error
	version      uint64
}

func (s *fakeStore) Lookup(ext string) (domain.DenyRule, bool, error) {
	s.lookupCalls++
	if s.lookupErr != nil {
		return domain.DenyRule{}, false, s.lookupErr
	}
	r, ok := s.rules[ext]
	return r, ok, nil
}

func (s *fakeStore) RebuildAll(rules []domain.DenyRule, version uint64, _ int64) error {
	s.rebuildCalls++
	if s.rebuildErr != nil {
		return s.rebuildErr
	}
	s.rules = make(map[string]domain.DenyRule, len(rules))
	for _, r := range rules {
		s.rules[r.Extension] = r
	}
	s.version = version
	return nil
}

func (s *fakeStore) Stats() StoreStats {
	return StoreStats{Version: s.version, Extensions: uint64(len(s.rules))}
}

func (s *fakeStore) Close() error { return nil }

type fakeCache struct {
	m      map[string]domain.Decision
	purges int
}

func newFakeCache() *fakeCache { return &fakeCache{m: map[string]domain.Decision{}} }

func (c *fakeCache) Get(ext string) (domain.Decision, bool) {
	d, ok := c.m[ext]
	return d, ok
}

func (c *fakeCache) Put(ext string, d domain.Decision) { c.m[ext] = d }
func (c *fakeCache) Len() int                          { return len(c.m) }
func (c *fakeCache) Stats() CacheStats                 { return CacheStats{Size: len(c.m)} }

func (c *fakeCache) Purge() {
	c.purges++
	c.m = map[string]domain.Decision{}
}

// fakeBloom is exact: no false positives.
type fakeBloom struct{ keys map[string]struct{} }

func (b *fakeBloom) Add(key []byte) { b.keys[string(key)] = struct{}{} }
func (b *fakeBloom) MightContain(key []byte) bool {
	_, ok := b.keys[string(key)]
	return ok
}
func (b *fakeBloom) Clear() { b.keys = map[string]struct{}{} }

type fakeFactory struct {
	lastCapacity uint64
	lastFP       float64
}

func (f *fakeFactory) New(capacity uint64, fpRate float64) BloomFilter {
	f.lastCapacity, f.lastFP = capacity, fpRate
	return &fakeBloom{keys: map[string]struct{}{}}
}

func newTestRepo(t *testing.T, exts ...string) (*repository, *fakeStore, *fakeCache, *fakeFactory) {
	t.Helper()
	st := &fakeStore{}
	c := newFakeCache()
	f := &fakeFactory{}
	r := NewRepository(st, c, f, 0.02).(*repository)
	if err := r.UpdateAll(rulesFor(exts...), 1, time.Now().Unix()); err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}
	return r, st, c, f
}

func TestRepository_DecidePositive(t *testing.T) {
	r, st, c, _ := newTestRepo(t, "exe", "scr")

	d := r.Decide("exe")
	if !d.Malicious || d.MatchedRule != "exe" {
		t.Fatalf("Decide(exe) = %+v", d)
	}
	if st.lookupCalls != 1 || c.Len() != 1 {
		t.Fatalf("expected one store lookup and a cached decision, got lookups=%d cache=%d", st.lookupCalls, c.Len())
	}

	// second call is served from cache
	_ = r.Decide("exe")
	if st.lookupCalls != 1 {
		t.Fatalf("expected cached decision, store lookups=%d", st.lookupCalls)
	}
}

func TestRepository_DecideFoldsCaseOnly(t *testing.T) {
	r, _, _, _ := newTestRepo(t, "exe")
	if d := r.Decide("EXE"); !d.Malicious || d.MatchedRule != "exe" {
		t.Fatalf("expected case-folded hit, got %+v", d)
	}
	for _, ext := range []string{"exe ", " exe", "EXE\r\n", "exe\t"} {
		if d := r.Decide(ext); d.Malicious {
			t.Fatalf("Decide(%q) matched; whitespace must stay significant: %+v", ext, d)
		}
	}
}

func TestRepository_BloomNegativeSkipsStore(t *testing.T) {
	r, st, c, _ := newTestRepo(t, "exe")

	d := r.Decide("txt")
	if d.Malicious || d.Extension != "txt" {
		t.Fatalf("Decide(txt) = %+v", d)
	}
	if st.lookupCalls != 0 || c.Len() != 0 {
		t.Fatalf("bloom negative should not touch store or cache")
	}
	if s := r.Stats(); s.BloomSkips != 1 || s.Decisions != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestRepository_EmptyExtensionNeverMatches(t *testing.T) {
	st := &fakeStore{rules: map[string]domain.DenyRule{"": {Extension: "", Source: "bad"}}}
	r := NewRepository(st, newFakeCache(), &fakeFactory{}, 0.01)

	if d := r.Decide(""); d.Malicious {
		t.Fatalf("empty extension matched: %+v", d)
	}
	if st.lookupCalls != 0 {
		t.Fatalf("store consulted for empty extension")
	}
}

func TestRepository_NoBloomConsultsStore(t *testing.T) {
	st := &fakeStore{rules: map[string]domain.DenyRule{"bat": {Extension: "bat", Source: "s"}}}
	r := NewRepository(st, newFakeCache(), &fakeFactory{}, 0.01)

	if d := r.Decide("bat"); !d.Malicious {
		t.Fatalf("expected store hit without bloom, got %+v", d)
	}
}

func TestRepository_StoreErrorFailsOpen(t *testing.T) {
	r, st, _, _ := newTestRepo(t, "exe")
	st.lookupErr = errors.New("io error")

	if d := r.Decide("exe"); d.Malicious {
		t.Fatalf("expected safe on store error, got %+v", d)
	}
}

func TestRepository_UpdateAll(t *testing.T) {
	r, st, c, f := newTestRepo(t, "exe")
	_ = r.Decide("exe")

	if err := r.UpdateAll(rulesFor("bat", "cmd"), 2, time.Now().Unix()); err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}
	if c.purges != 2 || c.Len() != 0 {
		t.Fatalf("expected cache purge on update, purges=%d len=%d", c.purges, c.Len())
	}
	if f.lastCapacity != 2 || f.lastFP != 0.02 {
		t.Fatalf("factory sized with (%d, %v)", f.lastCapacity, f.lastFP)
	}
	if d := r.Decide("exe"); d.Malicious {
		t.Fatalf("stale rule survived update: %+v", d)
	}
	if d := r.Decide("cmd"); !d.Malicious {
		t.Fatalf("new rule missing after update: %+v", d)
	}
	if v := r.Stats().Store.Version; v != 2 || st.rebuildCalls != 2 {
		t.Fatalf("version=%d rebuilds=%d", v, st.rebuildCalls)
	}
}

func TestRepository_UpdateAllStoreError(t *testing.T) {
	r, st, c, _ := newTestRepo(t, "exe")
	st.rebuildErr = errors.New("disk full")

	if err := r.UpdateAll(rulesFor("bat"), 2, 0); err == nil {
		t.Fatalf("expected rebuild error")
	}
	if c.purges != 1 {
		t.Fatalf("cache must not be purged when the store rebuild fails")
	}
	if d := r.Decide("exe"); !d.Malicious {
		t.Fatalf("previous snapshot should remain active: %+v", d)
	}
}
