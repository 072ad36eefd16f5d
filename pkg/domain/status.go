package domain

// Status is the overall propagation status of an entity in one step.
type Status string

const (
	StatusNotYetActive           Status = "NOT_YET_ACTIVE"
	StatusCreated                Status = "CREATED"
	StatusPropagated             Status = "PROPAGATED"
	StatusModified               Status = "MODIFIED"
	StatusDeactivated            Status = "DEACTIVATED"
	StatusDeactivatedToInitial   Status = "DEACTIVATED_TO_INITIAL"
	StatusNoLongerActive         Status = "NO_LONGER_ACTIVE"
	StatusResetToInitial         Status = "RESET_TO_INITIAL"
	StatusToBeComputed           Status = "TO_BE_COMPUTED"
	StatusPropagatedFromComputed Status = "PROPAGATED_FROM_COMPUTED"
	StatusBuiltIntoBaseState     Status = "BUILT_INTO_BASE_STATE"
	StatusTypeNotApplicable      Status = "TYPE_NOT_APPLICABLE"
	StatusInstanceNotApplicable  Status = "INSTANCE_NOT_APPLICABLE"
)

// Statuses lists the full vocabulary in declaration order.
var Statuses = []Status{
	StatusNotYetActive,
	StatusCreated,
	StatusPropagated,
	StatusModified,
	StatusDeactivated,
	StatusDeactivatedToInitial,
	StatusNoLongerActive,
	StatusResetToInitial,
	StatusToBeComputed,
	StatusPropagatedFromComputed,
	StatusBuiltIntoBaseState,
	StatusTypeNotApplicable,
	StatusInstanceNotApplicable,
}

// Suppressed reports whether default transitions keep the status as is.
func (s Status) Suppressed() bool {
	switch s {
	case StatusDeactivated, StatusDeactivatedToInitial, StatusNoLongerActive, StatusBuiltIntoBaseState:
		return true
	}
	return false
}

// Terminal reports whether no further operation may target the entity.
func (s Status) Terminal() bool {
	return s == StatusNoLongerActive || s == StatusBuiltIntoBaseState
}

// FieldStatus tags how a single propagating field relates to propagation in a step.
type FieldStatus string

const (
	FieldUnset      FieldStatus = "UNSET"
	FieldSet        FieldStatus = "SET"
	FieldPropagated FieldStatus = "PROPAGATED"
	FieldModified   FieldStatus = "MODIFIED"
	FieldFreed      FieldStatus = "FREED"
	FieldComputed   FieldStatus = "COMPUTED"
)

// Sentinel is a non-literal amendment value.
type Sentinel string

const (
	// Unchanged re-asserts inheritance from the previous step.
	Unchanged Sentinel = "UNCHANGED"
	// Freed releases the field back to none.
	Freed Sentinel = "FREED"
	// Computed defers the field to a solver-computed result.
	Computed Sentinel = "COMPUTED"
)

// IsSentinel reports whether v is one of the amendment sentinels.
func IsSentinel(v any) (Sentinel, bool) {
	s, ok := v.(Sentinel)
	if !ok {
		return "", false
	}
	switch s {
	case Unchanged, Freed, Computed:
		return s, true
	}
	return "", false
}
