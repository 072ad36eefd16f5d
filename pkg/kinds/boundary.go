package kinds

import (
	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/dsl"
	"github.com/aretw0/stepwise/pkg/schema"
)

// TypeBC variants.
const (
	Xsymm    domain.Symbol = "XSYMM"
	Ysymm    domain.Symbol = "YSYMM"
	Zsymm    domain.Symbol = "ZSYMM"
	Xasymm   domain.Symbol = "XASYMM"
	Yasymm   domain.Symbol = "YASYMM"
	Zasymm   domain.Symbol = "ZASYMM"
	Pinned   domain.Symbol = "PINNED"
	Encastre domain.Symbol = "ENCASTRE"
)

// TypeBC covers the symmetry, antisymmetry, pinned and encastre boundary
// conditions. The variant is the creation-only typeName field.
var TypeBC = dsl.Kind("TypeBC", schema.FamilyBoundaryCondition).
	Creation("typeName", schema.Symbolic(constants.AxisTypeName)).Required().
	Creation("region", schema.Region()).Required().
	Creation("buckleCase", schema.Symbolic(constants.AxisBuckleCase)).Default("NOT_APPLICABLE").
	Creation("localCsys", schema.String()).
	Creation("category", schema.Symbolic(constants.AxisCategory)).Default("MECHANICAL").
	Statuses(boundaryStatuses...).
	Procedures(mechanical...).
	ForbidAmend("a symmetry/antisymmetry/encastre boundary condition cannot be edited in a propagated step").
	Reactivatable().
	MustBuild()

var bcDistribution = schema.Symbolic(constants.AxisDistributionType, "UNIFORM", "USER_DEFINED", "FIELD")

// PorePressureBC prescribes pore pressure in soils analyses.
var PorePressureBC = dsl.Kind("PorePressureBC", schema.FamilyBoundaryCondition).
	Creation("region", schema.Region()).Required().
	Creation("distributionType", bcDistribution).Default("UNIFORM").
	Creation("fieldName", schema.String()).
	Creation("fixed", schema.Bool()).Default(false).
	Creation("category", schema.Symbolic(constants.AxisCategory)).Default("MECHANICAL").
	Propagating("magnitude", schema.Float()).Default(0).Freeable().
	Propagating("amplitude", schema.Ref(Amplitudes)).Freeable().
	OnlyWhen("fieldName", "distributionType", "FIELD").
	RequiredWhen("fieldName", "distributionType", "FIELD").
	Statuses(boundaryStatuses...).
	Procedures(porePressure...).
	RedefineAnyStep().
	Reactivatable().
	MustBuild()

// DisplacementBC prescribes translations and rotations per degree of freedom.
// Unset components are unconstrained; FREED releases a component.
var DisplacementBC = dsl.Kind("DisplacementBC", schema.FamilyBoundaryCondition).
	Creation("region", schema.Region()).Required().
	Creation("distributionType", bcDistribution).Default("UNIFORM").
	Creation("fieldName", schema.String()).
	Creation("fixed", schema.Bool()).Default(false).
	Creation("localCsys", schema.String()).
	Creation("buckleCase", schema.Symbolic(constants.AxisBuckleCase)).Default("NOT_APPLICABLE").
	Propagating("u1", schema.Float()).Freeable().
	Propagating("u2", schema.Float()).Freeable().
	Propagating("u3", schema.Float()).Freeable().
	Propagating("ur1", schema.Float()).Freeable().
	Propagating("ur2", schema.Float()).Freeable().
	Propagating("ur3", schema.Float()).Freeable().
	Propagating("amplitude", schema.Ref(Amplitudes)).Freeable().
	OnlyWhen("fieldName", "distributionType", "FIELD").
	RequiredWhen("fieldName", "distributionType", "FIELD").
	Statuses(boundaryStatuses...).
	Procedures(mechanical...).
	RedefineAnyStep().
	Reactivatable().
	MustBuild()

// TemperatureBC prescribes nodal temperatures in heat transfer analyses.
var TemperatureBC = dsl.Kind("TemperatureBC", schema.FamilyBoundaryCondition).
	Creation("region", schema.Region()).Required().
	Creation("distributionType", schema.Symbolic(constants.AxisDistributionType, "UNIFORM", "USER_DEFINED", "FIELD", "DISCRETE_FIELD")).Default("UNIFORM").
	Creation("fieldName", schema.String()).
	Creation("fixed", schema.Bool()).Default(false).
	Creation("category", schema.Symbolic(constants.AxisCategory)).Default("THERMAL").
	Propagating("magnitude", schema.Float()).Default(0).Freeable().
	Propagating("amplitude", schema.Ref(Amplitudes)).Freeable().
	OnlyWhen("fieldName", "distributionType", "FIELD", "DISCRETE_FIELD").
	RequiredWhen("fieldName", "distributionType", "FIELD", "DISCRETE_FIELD").
	Statuses(boundaryStatuses...).
	Procedures(thermal...).
	RedefineAnyStep().
	Reactivatable().
	MustBuild()
