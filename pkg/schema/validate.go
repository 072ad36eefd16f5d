package schema

import (
	"errors"

	"github.com/aretw0/stepwise/pkg/domain"
)

// CoerceDefinition validates a definition patch against the kind.
// Every key must be a declared field and every value must match its type;
// sentinels are not accepted. All failures are reported together.
func (k *Kind) CoerceDefinition(values domain.Values) (domain.Values, error) {
	out := make(domain.Values, len(values))
	var errs []error

	for _, name := range values.Keys() {
		value := values[name]
		field, ok := k.Field(name)
		if !ok {
			errs = append(errs, &ValidationError{Key: name, Reason: "not declared by " + k.Name, Value: value})
			continue
		}
		if _, isSentinel := domain.IsSentinel(value); isSentinel {
			errs = append(errs, &ValidationError{Key: name, Reason: "sentinels are only accepted by step amendments", Value: value})
			continue
		}
		if value == nil {
			// explicit nil clears an optional field back to absent
			out[name] = nil
			continue
		}
		coerced, err := field.Type.Coerce(value)
		if err != nil {
			errs = append(errs, fieldError(name, value, err))
			continue
		}
		out[name] = coerced
	}

	if err := aggregate(errs); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckDefinition validates a complete definition: required fields and
// cross-field constraints.
func (k *Kind) CheckDefinition(def domain.Values) error {
	var errs []error
	for _, f := range k.Fields {
		if f.Required && !IsSet(def[f.Name]) {
			errs = append(errs, &ValidationError{Key: f.Name, Reason: "required"})
		}
	}
	if err := k.CheckConstraints(def); err != nil {
		errs = append(errs, ValidationErrorsOrSelf(err)...)
	}
	return aggregate(errs)
}

// CheckConstraints runs every cross-field constraint against values.
func (k *Kind) CheckConstraints(values domain.Values) error {
	var errs []error
	for _, c := range k.Constraints {
		if err := c.Check(values); err != nil {
			errs = append(errs, err)
		}
	}
	return aggregate(errs)
}

// CoerceAmendment validates a step amendment patch. Only propagating fields
// are accepted; each value is a literal or one of the sentinels the field declares.
func (k *Kind) CoerceAmendment(values domain.Values) (domain.Values, error) {
	out := make(domain.Values, len(values))
	var errs []error

	for _, name := range values.Keys() {
		value := values[name]
		field, ok := k.Field(name)
		if !ok {
			errs = append(errs, &ValidationError{Key: name, Reason: "not declared by " + k.Name, Value: value})
			continue
		}
		if field.Mutability != Propagating {
			errs = append(errs, &ValidationError{Key: name, Reason: "creation-only field cannot be amended in a step", Value: value})
			continue
		}

		if s, isSentinel := domain.IsSentinel(value); isSentinel {
			switch {
			case s == domain.Freed && !field.Freeable:
				errs = append(errs, &ValidationError{Key: name, Reason: "field cannot be freed", Value: value})
			case s == domain.Computed && !field.Computable:
				errs = append(errs, &ValidationError{Key: name, Reason: "field cannot be computed", Value: value})
			default:
				out[name] = s
			}
			continue
		}
		if value == nil {
			errs = append(errs, &ValidationError{Key: name, Reason: "use the FREED sentinel to clear a propagating field"})
			continue
		}

		coerced, err := field.Type.Coerce(value)
		if err != nil {
			errs = append(errs, fieldError(name, value, err))
			continue
		}
		out[name] = coerced
	}

	if err := aggregate(errs); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidationErrorsOrSelf flattens an AggregateError, or wraps a single error.
func ValidationErrorsOrSelf(err error) []error {
	if err == nil {
		return nil
	}
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return []error{err}
}
