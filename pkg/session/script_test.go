package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/script"
	"github.com/aretw0/stepwise/pkg/session"
)

const soilsScript = `
model: Model-1
steps:
  - {name: Step-1, procedure: SOILS}
  - {name: Step-2, procedure: SOILS}
operations:
  - {op: create, kind: PorePressureBC, key: BC-1, step: Step-1, fields: {region: {set: Soil}, magnitude: 10}}
  - {op: amend, key: BC-1, step: Step-2, fields: {magnitude: 20}}
`

func TestManager_ApplyScript(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(memory.NewStore())

	s, err := script.Parse([]byte(soilsScript))
	require.NoError(t, err)

	m, err := manager.ApplyScript(ctx, "Model-1", s)
	require.NoError(t, err)
	e, err := m.Entity("boundaryConditions", "BC-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusModified, e.Status("Step-2"))

	stored, err := manager.Load(ctx, "Model-1")
	require.NoError(t, err)
	assert.Len(t, stored.Steps(), 3)

	t.Run("Failure Leaves Store Unchanged", func(t *testing.T) {
		bad, err := script.Parse([]byte("operations:\n  - {op: deactivate, key: BC-1, step: Step-9}\n"))
		require.NoError(t, err)
		_, err = manager.ApplyScript(ctx, "Model-1", bad)
		var opErr *script.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, 0, opErr.Index)

		again, err := manager.Load(ctx, "Model-1")
		require.NoError(t, err)
		e, err := again.Entity("boundaryConditions", "BC-1")
		require.NoError(t, err)
		assert.Empty(t, e.Ops()[1:])
	})

	t.Run("Model Name Mismatch", func(t *testing.T) {
		_, err := manager.ApplyScript(ctx, "Other", s)
		assert.ErrorIs(t, err, domain.ErrValue)
		_, err = manager.Load(ctx, "Other")
		assert.ErrorIs(t, err, domain.ErrModelNotFound)
	})
}
