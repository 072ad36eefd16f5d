package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{
			name:     "range with legal set",
			err:      &RangeError{Axis: "distributionType", Value: "SPIKY", Legal: []string{"UNIFORM", "FIELD"}},
			sentinel: ErrRange,
			contains: "legal: UNIFORM, FIELD",
		},
		{
			name:     "numeric range",
			err:      &RangeError{Axis: "magnitude", Value: -1.0, Reason: "must be >= 0"},
			sentinel: ErrRange,
			contains: "must be >= 0",
		},
		{
			name:     "value",
			err:      NewValueError("amendInStep", "BC-1", "step %q precedes creation step %q", "Initial", "Step-1"),
			sentinel: ErrValue,
			contains: `step "Initial" precedes`,
		},
		{
			name:     "collision",
			err:      &KeyCollisionError{Scope: "boundaryConditions", Key: "BC-1"},
			sentinel: ErrKeyCollision,
			contains: `"BC-1" already exists`,
		},
		{
			name:     "not found",
			err:      &KeyNotFoundError{Scope: "loads", Key: "Load-9"},
			sentinel: ErrKeyNotFound,
			contains: `"Load-9" in loads`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("script op 3: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Contains(t, wrapped.Error(), tt.contains)

			for _, other := range []error{ErrRange, ErrValue, ErrKeyCollision, ErrKeyNotFound} {
				if other != tt.sentinel {
					assert.False(t, errors.Is(wrapped, other), "unexpected match with %v", other)
				}
			}
		})
	}
}

func TestValueErrorAs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewValueError("redefine", "BC-2", "outside creation step"))

	var ve *ValueError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "redefine", ve.Op)
		assert.Equal(t, "BC-2", ve.Target)
	}
}

func TestValueErrorUnwrapsCause(t *testing.T) {
	cause := &KeyNotFoundError{Scope: "amplitudes", Key: "Ramp"}
	err := &ValueError{Op: "resolve", Target: "amplitude", Reason: cause.Error(), Err: cause}

	assert.ErrorIs(t, err, ErrValue)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NotErrorIs(t, NewValueError("amend", "BC-1", "bad"), ErrKeyNotFound)
}
