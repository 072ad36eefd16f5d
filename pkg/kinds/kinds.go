// Package kinds declares the built-in entity kinds and their per-kind
// propagation policies: legal statuses, applicable procedures, redefinition
// and amendment rules.
package kinds

import (
	"sync"

	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/aretw0/stepwise/pkg/schema"
)

// Repository names of the foreign-key targets.
const (
	Amplitudes            = "amplitudes"
	InteractionProperties = "interactionProperties"
)

// All returns every built-in kind.
func All() []*schema.Kind {
	return []*schema.Kind{
		TypeBC,
		PorePressureBC,
		DisplacementBC,
		TemperatureBC,
		BodyHeatFlux,
		ConcentratedForce,
		Pressure,
		SurfaceToSurfaceContactStd,
		AcousticImpedance,
		Temperature,
		Velocity,
	}
}

// Register adds every built-in kind to r.
func Register(r *registry.Registry) error {
	for _, k := range All() {
		if err := r.Register(k); err != nil {
			return err
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *registry.Registry
)

// Default returns a shared registry holding the built-in kinds.
func Default() *registry.Registry {
	defaultOnce.Do(func() {
		r := registry.New()
		if err := Register(r); err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
