package kinds

import (
	"errors"

	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/dsl"
	"github.com/aretw0/stepwise/pkg/schema"
)

// BodyHeatFlux applies a distributed heat flux per unit volume.
var BodyHeatFlux = dsl.Kind("BodyHeatFlux", schema.FamilyLoad).
	Creation("region", schema.Region()).Required().
	Creation("distributionType", bcDistribution).Default("UNIFORM").
	Creation("field", schema.String()).
	Propagating("magnitude", schema.Float()).Required().
	Propagating("amplitude", schema.Ref(Amplitudes)).Freeable().
	OnlyWhen("field", "distributionType", "FIELD").
	RequiredWhen("field", "distributionType", "FIELD").
	Statuses(loadStatuses...).
	Procedures(thermal...).
	RedefineAnyStep().
	Reactivatable().
	MustBuild()

// ConcentratedForce applies nodal force components.
var ConcentratedForce = dsl.Kind("ConcentratedForce", schema.FamilyLoad).
	Creation("region", schema.Region()).Required().
	Creation("distributionType", schema.Symbolic(constants.AxisDistributionType, "UNIFORM", "FIELD")).Default("UNIFORM").
	Creation("field", schema.String()).
	Creation("follower", schema.Bool()).Default(false).
	Creation("localCsys", schema.String()).
	Propagating("cf1", schema.Float()).
	Propagating("cf2", schema.Float()).
	Propagating("cf3", schema.Float()).
	Propagating("amplitude", schema.Ref(Amplitudes)).Freeable().
	OnlyWhen("field", "distributionType", "FIELD").
	Rule("at least one force component", func(v domain.Values) error {
		for _, c := range []string{"cf1", "cf2", "cf3"} {
			if f, ok := v[c].(float64); ok && f != 0 {
				return nil
			}
		}
		return errors.New("at least one of cf1, cf2, cf3 must be nonzero")
	}).
	Statuses(loadStatuses...).
	Procedures(mechanical...).
	RedefineAnyStep().
	Reactivatable().
	MustBuild()

// Pressure applies a surface traction normal to the surface.
var Pressure = dsl.Kind("Pressure", schema.FamilyLoad).
	Creation("region", schema.Region()).Required().
	Creation("distributionType", schema.Symbolic(constants.AxisDistributionType, "UNIFORM", "USER_DEFINED", "FIELD", "TOTAL_FORCE")).Default("UNIFORM").
	Creation("field", schema.String()).
	Propagating("magnitude", schema.Float()).Required().
	Propagating("amplitude", schema.Ref(Amplitudes)).Freeable().
	OnlyWhen("field", "distributionType", "FIELD").
	RequiredWhen("field", "distributionType", "FIELD").
	Statuses(loadStatuses...).
	Procedures(mechanical...).
	RedefineAnyStep().
	Reactivatable().
	MustBuild()
