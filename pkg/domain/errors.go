package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	// ErrRange marks a symbolic or numeric value outside its declared domain.
	ErrRange = errors.New("range error")
	// ErrValue marks a structurally invalid call.
	ErrValue = errors.New("value error")
	// ErrKeyCollision marks a create with a key already present in scope.
	ErrKeyCollision = errors.New("key collision")
	// ErrKeyNotFound marks a lookup or delete of an absent key.
	ErrKeyNotFound = errors.New("key not found")
)

// ErrModelNotFound is returned when a model cannot be found in the store.
var ErrModelNotFound = errors.New("model not found")

// RangeError reports a value rejected by its domain.
// Legal is empty for numeric ranges, where Reason carries the bounds.
type RangeError struct {
	Axis   string
	Value  any
	Legal  []string
	Reason string
}

func (e *RangeError) Error() string {
	if len(e.Legal) > 0 {
		return fmt.Sprintf("range error: %v is not a member of %q (legal: %s)", e.Value, e.Axis, strings.Join(e.Legal, ", "))
	}
	return fmt.Sprintf("range error: %v out of range for %q: %s", e.Value, e.Axis, e.Reason)
}

func (e *RangeError) Is(target error) bool { return target == ErrRange }

// ValueError reports a structurally invalid call: wrong step ordering, a
// forbidden redefinition or amendment, or a malformed field combination.
type ValueError struct {
	Op     string
	Target string
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ValueError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("value error: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("value error: %s %s: %s", e.Op, e.Target, e.Reason)
}

func (e *ValueError) Is(target error) bool { return target == ErrValue }

func (e *ValueError) Unwrap() error { return e.Err }

// NewValueError builds a ValueError with a formatted reason.
func NewValueError(op, target, format string, args ...any) *ValueError {
	return &ValueError{Op: op, Target: target, Reason: fmt.Sprintf(format, args...)}
}

// KeyCollisionError is returned when a key already exists within a scope.
type KeyCollisionError struct {
	Scope string
	Key   string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("key collision: %q already exists in %s", e.Key, e.Scope)
}

func (e *KeyCollisionError) Is(target error) bool { return target == ErrKeyCollision }

// KeyNotFoundError is returned when a key is absent from a scope.
type KeyNotFoundError struct {
	Scope string
	Key   string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %q in %s", e.Key, e.Scope)
}

func (e *KeyNotFoundError) Is(target error) bool { return target == ErrKeyNotFound }
