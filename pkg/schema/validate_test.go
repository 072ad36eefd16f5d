package schema

import (
	"errors"
	"testing"

	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/domain"
)

func testKind() *Kind {
	return &Kind{
		Name:   "PorePressureBC",
		Family: FamilyBoundaryCondition,
		Fields: []Field{
			{Name: "region", Type: Region(), Required: true},
			{Name: "distributionType", Type: Symbolic(constants.AxisDistributionType, "UNIFORM", "USER_DEFINED", "FIELD"), Default: domain.Symbol("UNIFORM")},
			{Name: "fieldName", Type: String()},
			{Name: "fixed", Type: Bool(), Default: false},
			{Name: "magnitude", Type: Float(), Mutability: Propagating, Default: 0.0},
			{Name: "amplitude", Type: Ref("amplitudes"), Mutability: Propagating, Freeable: true},
		},
		Constraints: []Constraint{
			OnlyWhen("fieldName", "distributionType", "FIELD"),
			RequiredWhen("fieldName", "distributionType", "FIELD"),
		},
	}
}

func TestCoerceDefinition_Success(t *testing.T) {
	k := testKind()

	got, err := k.CoerceDefinition(domain.Values{
		"region":           map[string]any{"set": "Set-1"},
		"distributionType": "FIELD",
		"fieldName":        "AnalyticalField-1",
		"magnitude":        10,
	})
	if err != nil {
		t.Fatalf("CoerceDefinition() error = %v", err)
	}
	if got["region"] != (domain.Region{Set: "Set-1"}) {
		t.Errorf("region = %v", got["region"])
	}
	if got["distributionType"] != domain.Symbol("FIELD") {
		t.Errorf("distributionType = %#v", got["distributionType"])
	}
	if got["magnitude"] != 10.0 {
		t.Errorf("magnitude = %#v", got["magnitude"])
	}
}

func TestCoerceDefinition_CollectsAllFailures(t *testing.T) {
	k := testKind()

	_, err := k.CoerceDefinition(domain.Values{
		"region":           42,
		"distributionType": "SPIKY",
		"colour":           "red",
		"amplitude":        domain.Freed,
	})
	if err == nil {
		t.Fatal("CoerceDefinition() should fail")
	}

	errs := ValidationErrors(err)
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), err)
	}
	if !errors.Is(err, domain.ErrRange) {
		t.Errorf("aggregate should report the range violation")
	}
	if !errors.Is(err, domain.ErrValue) {
		t.Errorf("aggregate should report the structural violations")
	}
}

func TestCoerceDefinition_RangeOnly(t *testing.T) {
	_, err := testKind().CoerceDefinition(domain.Values{"distributionType": "FROM_FILE"})
	if !errors.Is(err, domain.ErrRange) {
		t.Fatalf("error = %v, want range error", err)
	}
	if errors.Is(err, domain.ErrValue) {
		t.Errorf("a pure range failure should not match ErrValue")
	}
}

func TestCheckDefinition(t *testing.T) {
	k := testKind()

	tests := []struct {
		name    string
		def     domain.Values
		wantErr bool
	}{
		{
			name: "uniform without field name",
			def:  domain.Values{"region": domain.Region{Set: "Set-1"}, "distributionType": domain.Symbol("UNIFORM")},
		},
		{
			name:    "missing region",
			def:     domain.Values{"distributionType": domain.Symbol("UNIFORM")},
			wantErr: true,
		},
		{
			name:    "unset region counts as missing",
			def:     domain.Values{"region": domain.Region{}, "distributionType": domain.Symbol("UNIFORM")},
			wantErr: true,
		},
		{
			name:    "field name only when FIELD",
			def:     domain.Values{"region": domain.Region{Set: "Set-1"}, "distributionType": domain.Symbol("UNIFORM"), "fieldName": "F-1"},
			wantErr: true,
		},
		{
			name:    "field name required when FIELD",
			def:     domain.Values{"region": domain.Region{Set: "Set-1"}, "distributionType": domain.Symbol("FIELD")},
			wantErr: true,
		},
		{
			name: "field with name",
			def:  domain.Values{"region": domain.Region{Set: "Set-1"}, "distributionType": domain.Symbol("FIELD"), "fieldName": "F-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := k.CheckDefinition(tt.def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckDefinition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValue) {
				t.Errorf("error = %v, want value error", err)
			}
		})
	}
}

func TestCoerceAmendment(t *testing.T) {
	k := testKind()

	got, err := k.CoerceAmendment(domain.Values{
		"magnitude": domain.Unchanged,
		"amplitude": domain.Freed,
	})
	if err != nil {
		t.Fatalf("CoerceAmendment() error = %v", err)
	}
	if got["amplitude"] != domain.Freed || got["magnitude"] != domain.Unchanged {
		t.Errorf("sentinels not preserved: %v", got)
	}

	tests := []struct {
		name   string
		values domain.Values
	}{
		{"creation-only field", domain.Values{"distributionType": "FIELD"}},
		{"unknown field", domain.Values{"colour": "red"}},
		{"free not declared", domain.Values{"magnitude": domain.Freed}},
		{"compute not declared", domain.Values{"magnitude": domain.Computed}},
		{"nil literal", domain.Values{"amplitude": nil}},
		{"type mismatch", domain.Values{"magnitude": "high"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.CoerceAmendment(tt.values)
			if !errors.Is(err, domain.ErrValue) {
				t.Fatalf("error = %v, want value error", err)
			}
		})
	}
}

func TestKindAccessors(t *testing.T) {
	k := testKind()
	k.Statuses = []domain.Status{domain.StatusCreated, domain.StatusPropagated}
	k.Procedures = []domain.Symbol{"SOILS"}

	if !k.Allows(domain.StatusCreated) || k.Allows(domain.StatusToBeComputed) {
		t.Errorf("Allows() does not follow the declared subset")
	}
	if !k.AppliesTo("SOILS") || k.AppliesTo("HEAT_TRANSFER") {
		t.Errorf("AppliesTo() does not follow the declared procedures")
	}
	if !k.CanCreateIn("HEAT_TRANSFER") {
		t.Errorf("empty CreateIn should accept every procedure")
	}

	prop := k.PropagatingFields()
	if len(prop) != 2 || prop[0].Name != "magnitude" || prop[1].Name != "amplitude" {
		t.Errorf("PropagatingFields() = %v", prop)
	}

	d1 := k.Defaults()
	d1["magnitude"] = 99.0
	if k.Defaults()["magnitude"] != 0.0 {
		t.Errorf("Defaults() must return a fresh map")
	}
	if _, ok := k.Defaults()["region"]; ok {
		t.Errorf("region must default to absent")
	}
}
