package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise/internal/dto"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/kinds"
	"github.com/aretw0/stepwise/pkg/model"
)

func TestNewModelView(t *testing.T) {
	m := model.New("Model-1")
	require.NoError(t, m.AppendStep("Step-1", "SOILS"))
	_, err := m.AddAmplitude("Ramp", domain.Table{{0, 0}, {1, 1}})
	require.NoError(t, err)
	_, err = m.Create("PorePressureBC", "BC-1", "Step-1", domain.Values{"region": domain.Region{Set: "Soil"}})
	require.NoError(t, err)

	v := dto.NewModelView(m)
	assert.Equal(t, "Model-1", v.Name)
	assert.Equal(t, []dto.StepView{{Name: "Initial", Procedure: "INITIAL"}, {Name: "Step-1", Procedure: "SOILS"}}, v.Steps)
	assert.Equal(t, []dto.ReferenceView{{Repository: "amplitudes", Name: "Ramp"}}, v.References)
	require.Len(t, v.Entities, 1)
	assert.Equal(t, []dto.StepStatus{
		{Step: "Initial", Status: domain.StatusNotYetActive},
		{Step: "Step-1", Status: domain.StatusCreated},
	}, v.Entities[0].Statuses)

	_, err = json.Marshal(v)
	require.NoError(t, err)
}

func TestNewEntityDetail(t *testing.T) {
	m := model.New("Model-1")
	require.NoError(t, m.AppendStep("Step-1", "SOILS"))
	require.NoError(t, m.AppendStep("Step-2", "SOILS"))
	e, err := m.Create("PorePressureBC", "BC-1", "Step-1", domain.Values{"region": domain.Region{Set: "Soil"}})
	require.NoError(t, err)
	require.NoError(t, m.Apply("boundaryConditions", "BC-1", domain.Op{Kind: domain.OpDeactivate, Step: "Step-2"}))

	d := dto.NewEntityDetail(e, m.Steps())
	assert.Equal(t, "PorePressureBC", d.Kind)
	assert.Len(t, d.Ops, 1)
	assert.Len(t, d.States, 2)
	assert.Equal(t, domain.StatusDeactivated, d.Statuses[2].Status)
	assert.Equal(t, domain.Region{Set: "Soil"}, d.Definition["region"])
}

func TestNewKindView(t *testing.T) {
	v := dto.NewKindView(kinds.TypeBC)
	assert.Equal(t, "TypeBC", v.Name)
	assert.False(t, v.Amendable)
	assert.True(t, v.Reactivatable)
	require.NotEmpty(t, v.Fields)
	assert.Equal(t, "typeName", v.Fields[0].Name)
	assert.True(t, v.Fields[0].Required)
	assert.Equal(t, "creation-only", v.Fields[0].Mutability)

	views := dto.NewKindViews(kinds.Default().Kinds())
	assert.NotEmpty(t, views)
}
