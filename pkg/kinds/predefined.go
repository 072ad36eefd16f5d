package kinds

import (
	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/dsl"
	"github.com/aretw0/stepwise/pkg/schema"
)

// Temperature is a predefined temperature field. It uses the full status
// vocabulary and cannot be reactivated once deactivated.
var Temperature = dsl.Kind("Temperature", schema.FamilyPredefinedField).
	Creation("region", schema.Region()).Required().
	Creation("distributionType", schema.Symbolic(constants.AxisDistributionType,
		"UNIFORM", "USER_DEFINED", "FROM_FILE", "FIELD", "FROM_FILE_AND_USER_DEFINED", "DISCRETE_FIELD")).Default("UNIFORM").
	Creation("crossSectionDistribution", schema.Symbolic(constants.AxisCrossSectionDistribution)).Default("CONSTANT_THROUGH_THICKNESS").
	Creation("fileName", schema.String()).
	Creation("field", schema.String()).
	Propagating("magnitude", schema.Float()).Default(0).
	Propagating("amplitude", schema.Ref(Amplitudes)).Freeable().
	OnlyWhen("fileName", "distributionType", "FROM_FILE", "FROM_FILE_AND_USER_DEFINED").
	RequiredWhen("fileName", "distributionType", "FROM_FILE", "FROM_FILE_AND_USER_DEFINED").
	OnlyWhen("field", "distributionType", "FIELD", "DISCRETE_FIELD").
	RequiredWhen("field", "distributionType", "FIELD", "DISCRETE_FIELD").
	Statuses(predefinedStatuses...).
	RedefineAnyStep().
	MustBuild()

// Velocity is an initial velocity condition, created in the initial step only.
var Velocity = dsl.Kind("Velocity", schema.FamilyPredefinedField).
	Creation("region", schema.Region()).Required().
	Creation("velocity1", schema.Float()).Default(0).
	Creation("velocity2", schema.Float()).Default(0).
	Creation("velocity3", schema.Float()).Default(0).
	Creation("omega", schema.Float()).Default(0).
	Creation("axisBegin", schema.Vector(3)).
	Creation("axisEnd", schema.Vector(3)).
	Statuses(initialConditionStatuses...).
	CreateIn(domain.ProcedureInitial).
	MustBuild()
