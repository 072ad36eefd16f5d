package kinds

import (
	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/dsl"
	"github.com/aretw0/stepwise/pkg/schema"
)

// SurfaceToSurfaceContactStd is surface-to-surface contact in implicit analyses.
var SurfaceToSurfaceContactStd = dsl.Kind("SurfaceToSurfaceContactStd", schema.FamilyInteraction).
	Creation("master", schema.Region()).Required().
	Creation("slave", schema.Region()).Required().
	Creation("sliding", schema.Symbolic(constants.AxisSliding)).Default("FINITE").
	Creation("enforcement", schema.Symbolic(constants.AxisEnforcement)).Default("SURFACE_TO_SURFACE").
	Propagating("interactionProperty", schema.Ref(InteractionProperties)).Required().
	Propagating("interferenceType", schema.Symbolic(constants.AxisInterferenceType)).Default("NONE").Freeable().
	Propagating("overclosure", schema.Float()).Freeable().Computable().
	Propagating("interferenceDirectionType", schema.Symbolic(constants.AxisInterferenceDirectionType)).Default("COMPUTED").Freeable().
	Propagating("direction", schema.Vector(3)).Freeable().
	Propagating("amplitude", schema.Ref(Amplitudes)).Freeable().
	Propagating("contactControls", schema.String()).Freeable().
	OnlyWhen("overclosure", "interferenceType", "UNIFORM").
	OnlyWhen("amplitude", "interferenceType", "SHRINK_FIT", "UNIFORM").
	OnlyWhen("direction", "interferenceDirectionType", "DIRECTION_COSINE").
	RequiredWhen("direction", "interferenceDirectionType", "DIRECTION_COSINE").
	Statuses(interactionStatuses...).
	Procedures(mechanical...).
	RedefineAnyStep().
	Reactivatable().
	MustBuild()

// AcousticImpedance defines an impedance boundary on an acoustic surface.
var AcousticImpedance = dsl.Kind("AcousticImpedance", schema.FamilyInteraction).
	Creation("surface", schema.Region()).Required().
	Creation("definition", schema.Symbolic(constants.AxisImpedanceDefinition)).Default("TABULAR").
	Propagating("interactionProperty", schema.Ref(InteractionProperties)).Freeable().
	RequiredWhen("interactionProperty", "definition", "TABULAR").
	Statuses(interactionStatuses...).
	Procedures(acoustic...).
	RedefineAnyStep().
	Reactivatable().
	MustBuild()
