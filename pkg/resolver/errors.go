package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("resolver: reference not found")
	// ErrCyclicReference matches every CyclicReferenceError.
	ErrCyclicReference = errors.New("resolver: cyclic reference")
)

// NotFoundError reports a reference that could not be loaded, decoded, or
// pointed into. Callers skip the branch that referenced it.
type NotFoundError struct {
	Ref      string
	Location string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolver: reference %q (%s) not found", e.Ref, e.Location)
	}
	return fmt.Sprintf("resolver: reference %q (%s) not found: %v", e.Ref, e.Location, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CyclicReferenceError reports a location re-entered while it is still being
// walked, or a reference chain deeper than the configured limit.
type CyclicReferenceError struct {
	Location string
	Chain    []string
	MaxDepth int
}

func (e *CyclicReferenceError) Error() string {
	if e.MaxDepth > 0 {
		return fmt.Sprintf("resolver: reference depth exceeds %d at %s", e.MaxDepth, e.Location)
	}
	return fmt.Sprintf("resolver: cyclic reference at %s (%s)", e.Location, strings.Join(e.Chain, " -> "))
}

func (e *CyclicReferenceError) Is(target error) bool {
	return target == ErrCyclicReference
}
