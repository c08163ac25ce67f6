package domain

import (
	"fmt"
	"strings"
	"time"
)

// DenyRule represents a single denylist entry sourced from a file.
//
// Notes:
// - Extension is expected to be canonical (normalization handled by the parser).
// - Source identifies where the rule came from (file path).
// - AddedAt records when the rule was ingested.
type DenyRule struct {
	Extension string    // canonical extension without a leading dot, e.g. "exe"
	Source    string    // file identifier
	AddedAt   time.Time // ingestion timestamp
}

// NewDenyRule constructs a DenyRule and validates its fields.
func NewDenyRule(extension, source string, addedAt time.Time) (DenyRule, error) {
	r := DenyRule{
		Extension: extension,
		Source:    strings.TrimSpace(source),
		AddedAt:   addedAt,
	}
	if err := r.Validate(); err != nil {
		return DenyRule{}, err
	}
	return r, nil
}

// Validate checks the DenyRule for required fields.
func (r DenyRule) Validate() error {
	if r.Extension == "" {
		return fmt.Errorf("rule extension must not be empty")
	}
	if r.Source == "" {
		return fmt.Errorf("rule source must not be empty")
	}
	if r.AddedAt.IsZero() {
		return fmt.Errorf("rule addedAt must be set")
	}
	return nil
}
