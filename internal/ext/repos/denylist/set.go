package denylist

import (
	"sort"

	"github.com/haukened/extguard/internal/ext/domain"
)

// Set is the in-memory denylist: unique canonical extensions mapped to the rule
// that introduced them. A Set is immutable once built.
type Set struct {
	rules map[string]domain.DenyRule
}

// NewSet builds a Set from rules. The first rule seen for an extension wins.
// Rules with an empty extension are dropped so "" can never be a member.
func NewSet(rules []domain.DenyRule) Set {
	m := make(map[string]domain.DenyRule, len(rules))
	for _, r := range rules {
		if r.Extension == "" {
			continue
		}
		if _, ok := m[r.Extension]; ok {
			continue
		}
		m[r.Extension] = r
	}
	return Set{rules: m}
}

// Get returns the rule for ext.
func (s Set) Get(ext string) (domain.DenyRule, bool) {
	r, ok := s.rules[ext]
	return r, ok
}

// Len returns the number of extensions in the set.
func (s Set) Len() int { return len(s.rules) }

// Extensions returns the members in sorted order.
func (s Set) Extensions() []string {
	out := make([]string, 0, len(s.rules))
	for ext := range s.rules {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
