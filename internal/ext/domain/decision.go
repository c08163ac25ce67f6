package domain

// Decision represents the outcome of classifying one filename against the denylist.
// Pure value type, no external dependencies.
type Decision struct {
	Malicious   bool   // true if the extension is on the denylist
	Extension   string // canonical extension that was looked up ("" if none)
	MatchedRule string // denylist entry that matched
	Source      string // optional: source identifier of the matched rule
}

// IsMalicious is a convenience accessor.
func (d Decision) IsMalicious() bool { return d.Malicious }

// SafeDecision returns a not-malicious decision.
func SafeDecision() Decision { return Decision{Malicious: false} }

// MaliciousDecision builds a positive decision from the rule that matched.
func MaliciousDecision(r DenyRule) Decision {
	return Decision{
		Malicious:   true,
		Extension:   r.Extension,
		MatchedRule: r.Extension,
		Source:      r.Source,
	}
}
