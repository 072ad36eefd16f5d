package dsl

import (
	"testing"

	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/schema"
)

func TestBuilder_Kind(t *testing.T) {
	k, err := Kind("BodyHeatFlux", schema.FamilyLoad).
		Creation("region", schema.Region()).Required().
		Creation("distributionType", schema.Symbolic(constants.AxisDistributionType)).Default("UNIFORM").
		Creation("field", schema.String()).
		Propagating("magnitude", schema.Float()).Default(0).
		Propagating("amplitude", schema.Ref("amplitudes")).Freeable().
		OnlyWhen("field", "distributionType", "FIELD").
		Statuses(domain.StatusCreated, domain.StatusPropagated, domain.StatusModified, domain.StatusDeactivated).
		Procedures("HEAT_TRANSFER").
		RedefineAnyStep().
		Reactivatable().
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if k.Name != "BodyHeatFlux" || k.Family != schema.FamilyLoad {
		t.Errorf("identity = %s/%s", k.Family, k.Name)
	}
	if len(k.Fields) != 5 {
		t.Fatalf("len(Fields) = %d, want 5", len(k.Fields))
	}

	dist, _ := k.Field("distributionType")
	if dist.Default != domain.Symbol("UNIFORM") {
		t.Errorf("default not coerced: %#v", dist.Default)
	}
	mag, _ := k.Field("magnitude")
	if mag.Default != 0.0 || mag.Mutability != schema.Propagating {
		t.Errorf("magnitude = %+v", mag)
	}
	amp, _ := k.Field("amplitude")
	if !amp.Freeable {
		t.Errorf("amplitude should be freeable")
	}
	if len(k.Constraints) != 1 {
		t.Errorf("len(Constraints) = %d", len(k.Constraints))
	}
	if k.Redefine != schema.RedefineAnyStep || !k.Reactivatable {
		t.Errorf("policies not applied: %+v", k)
	}
}

func TestBuilder_Errors(t *testing.T) {
	base := func() *KindBuilder {
		return Kind("K", schema.FamilyLoad).
			Statuses(domain.StatusCreated, domain.StatusPropagated)
	}

	tests := []struct {
		name  string
		build func() *KindBuilder
	}{
		{"empty name", func() *KindBuilder {
			return Kind("", schema.FamilyLoad).Statuses(domain.StatusCreated, domain.StatusPropagated)
		}},
		{"unknown family", func() *KindBuilder {
			return Kind("K", "widgets").Statuses(domain.StatusCreated, domain.StatusPropagated)
		}},
		{"duplicate field", func() *KindBuilder {
			return base().Creation("a", schema.Float()).Creation("a", schema.Float()).KindBuilder
		}},
		{"bad default", func() *KindBuilder {
			return base().Creation("a", schema.Float()).Default("x").KindBuilder
		}},
		{"sentinel on creation-only", func() *KindBuilder {
			return base().Creation("a", schema.Float()).Freeable().KindBuilder
		}},
		{"constraint on undeclared", func() *KindBuilder {
			return base().OnlyWhen("a", "b", "X")
		}},
		{"missing CREATED", func() *KindBuilder {
			return Kind("K", schema.FamilyLoad).Statuses(domain.StatusPropagated)
		}},
		{"reactivatable without DEACTIVATED", func() *KindBuilder {
			return base().Reactivatable()
		}},
		{"unknown procedure", func() *KindBuilder {
			return base().Procedures("TEA_BREAK")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.build().Build(); err == nil {
				t.Errorf("Build() should fail")
			}
		})
	}
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustBuild() should panic on an invalid kind")
		}
	}()
	Kind("", schema.FamilyLoad).MustBuild()
}
