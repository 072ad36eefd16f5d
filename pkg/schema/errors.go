package schema

import (
	"errors"
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
)

// ValidationError represents a single field validation failure.
// It reports as domain.ErrValue unless the cause is a range violation,
// in which case errors.Is finds domain.ErrRange through Unwrap.
type ValidationError struct {
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
	Err    error  // Underlying cause, if any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool {
	return target == domain.ErrValue && !errors.Is(e.Err, domain.ErrRange)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

func fieldError(key string, value any, err error) *ValidationError {
	return &ValidationError{Key: key, Reason: err.Error(), Value: value, Err: err}
}

func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}
