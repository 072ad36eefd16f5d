package kinds

import "github.com/aretw0/stepwise/pkg/domain"

// Legal object statuses per family. NOT_YET_ACTIVE is listed for
// completeness; it is implied for steps before creation and never stored.
var (
	loadStatuses = []domain.Status{
		domain.StatusNotYetActive,
		domain.StatusCreated,
		domain.StatusPropagated,
		domain.StatusModified,
		domain.StatusDeactivated,
		domain.StatusNoLongerActive,
		domain.StatusTypeNotApplicable,
		domain.StatusInstanceNotApplicable,
		domain.StatusBuiltIntoBaseState,
	}

	interactionStatuses = loadStatuses

	boundaryStatuses = append([]domain.Status{domain.StatusResetToInitial}, loadStatuses...)

	predefinedStatuses = domain.Statuses

	initialConditionStatuses = []domain.Status{
		domain.StatusNotYetActive,
		domain.StatusCreated,
		domain.StatusPropagated,
		domain.StatusBuiltIntoBaseState,
	}
)

// Procedure groups.
var (
	mechanical = []domain.Symbol{
		domain.ProcedureInitial,
		"STATIC_GENERAL",
		"GEOSTATIC",
		"SOILS",
		"COUPLED_TEMP_DISPLACEMENT",
		"FREQUENCY",
		"BUCKLE",
		"STEADY_STATE_DIRECT",
		"DYNAMIC_IMPLICIT",
		"DYNAMIC_EXPLICIT",
	}

	thermal = []domain.Symbol{
		domain.ProcedureInitial,
		"HEAT_TRANSFER",
		"COUPLED_TEMP_DISPLACEMENT",
	}

	porePressure = []domain.Symbol{
		domain.ProcedureInitial,
		"GEOSTATIC",
		"SOILS",
	}

	acoustic = []domain.Symbol{
		domain.ProcedureInitial,
		"FREQUENCY",
		"STEADY_STATE_DIRECT",
		"DYNAMIC_IMPLICIT",
	}
)
