package denylist

import (
	"errors"
	"fmt"
)

// ErrLoadFailure marks a denylist file that could not be opened or read.
var ErrLoadFailure = errors.New("denylist load failure")

// LoadError carries the path that failed to load and the underlying cause.
// errors.Is(err, ErrLoadFailure) reports true for every LoadError.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not open denylist %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoadFailure }
