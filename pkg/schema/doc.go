// Package schema declares entity kinds: their typed fields, mutability
// classification, cross-field constraints and propagation policies.
//
// Field types validate and coerce values into canonical Go shapes:
//
//	kind := &schema.Kind{
//	    Name:   "PorePressureBC",
//	    Family: schema.FamilyBoundaryCondition,
//	    Fields: []schema.Field{
//	        {Name: "region", Type: schema.Region(), Required: true},
//	        {Name: "distributionType", Type: schema.Symbolic(constants.AxisDistributionType), Default: domain.Symbol("UNIFORM")},
//	        {Name: "magnitude", Type: schema.Float(), Mutability: schema.Propagating, Default: 0.0},
//	        {Name: "amplitude", Type: schema.Ref("amplitudes"), Mutability: schema.Propagating, Freeable: true},
//	    },
//	}
//
//	def, err := kind.CoerceDefinition(values)
//
// Symbolic values are checked against the ConstantDomain and fail with a
// domain.RangeError; structural problems fail with an error matching
// domain.ErrValue. Failures for several fields are collected into one
// AggregateError.
//
// Custom validators can be registered for domain-specific validation:
//
//	positive := schema.Custom("positive", func(v any) error {
//	    f, ok := v.(float64)
//	    if !ok || f <= 0 {
//	        return fmt.Errorf("must be a positive float")
//	    }
//	    return nil
//	})
package schema
