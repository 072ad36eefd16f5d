package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SampleSnapshot returns a small model snapshot with one amended entity.
func SampleSnapshot(name string) *domain.ModelSnapshot {
	return &domain.ModelSnapshot{
		Name: name,
		Steps: []domain.Step{
			{Name: domain.InitialStep, Procedure: domain.ProcedureInitial},
			{Name: "Step-1", Procedure: "SOILS"},
			{Name: "Step-2", Procedure: "SOILS"},
		},
		Amplitudes: []domain.AmplitudeSnapshot{
			{Name: "Ramp", Data: domain.Table{{0, 0}, {1, 1}}},
		},
		Entities: []domain.EntitySnapshot{
			{
				Repository: "boundaryConditions",
				Key:        "BC-1",
				Kind:       "PorePressureBC",
				CreateStep: "Step-1",
				Definition: domain.Values{
					"region":    domain.Region{Set: "Soil"},
					"magnitude": 10.0,
				},
				Ops: []domain.Op{
					{Kind: domain.OpAmend, Step: "Step-2", Values: domain.Values{"magnitude": 20.0, "amplitude": domain.Freed}},
				},
			},
		},
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// RunModelStoreContract runs a suite of tests to verify that a ModelStore
// implementation adheres to the interface contract.
func RunModelStoreContract(t *testing.T, store ports.ModelStore) {
	t.Helper()
	ctx := context.Background()
	name := "contract-model-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := SampleSnapshot(name)
		require.NoError(t, store.Save(ctx, name, snap))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, name, loaded.Name)
		assert.Equal(t, snap.Steps, loaded.Steps)
		assert.True(t, snap.UpdatedAt.Equal(loaded.UpdatedAt))
		require.Len(t, loaded.Entities, 1)

		e := loaded.Entities[0]
		assert.Equal(t, "BC-1", e.Key)
		assert.Equal(t, "Step-1", e.CreateStep)
		assert.Contains(t, e.Definition, "magnitude")
		require.Len(t, e.Ops, 1)
		assert.Equal(t, domain.OpAmend, e.Ops[0].Kind)
		assert.Equal(t, domain.Freed, e.Ops[0].Values["amplitude"], "sentinels must survive persistence")
	})

	t.Run("Loaded snapshot is isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.Steps[1].Name = "mutated"

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "Step-1", again.Steps[1].Name)
	})

	t.Run("Overwrite", func(t *testing.T) {
		snap := SampleSnapshot(name)
		snap.Steps = snap.Steps[:2]
		require.NoError(t, store.Save(ctx, name, snap))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Len(t, loaded.Steps, 2)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, SampleSnapshot(name)))
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound, "Load after Delete should return ErrModelNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id1, SampleSnapshot(id1)))
		require.NoError(t, store.Save(ctx, id2, SampleSnapshot(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})
}
