/*
Package dsl provides a fluent builder for entity kind declarations.

It lets kinds be declared in Go with the same vocabulary the schema package
uses, while checking the declaration for consistency on Build: defaults must
match their field types, constraints must reference declared fields, and the
legal status subset must use the status vocabulary.

Example usage:

	kind := dsl.Kind("BodyHeatFlux", schema.FamilyLoad).
		Creation("region", schema.Region()).Required().
		Creation("distributionType", schema.Symbolic(constants.AxisDistributionType)).Default("UNIFORM").
		Propagating("magnitude", schema.Float()).Required().
		Propagating("amplitude", schema.Ref("amplitudes")).Freeable().
		Statuses(domain.StatusCreated, domain.StatusPropagated, domain.StatusModified).
		MustBuild()
*/
package dsl
