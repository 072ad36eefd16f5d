package stepwise_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/script"
)

func TestLoad(t *testing.T) {
	ctx := t.Context()

	t.Run("default name", func(t *testing.T) {
		m, err := stepwise.Load(ctx, []byte("steps: [{name: Step-1, procedure: STATIC_GENERAL}]"), nil)
		require.NoError(t, err)
		assert.Equal(t, stepwise.DefaultModelName, m.Name())
		assert.Equal(t, 1, m.Index("Step-1"))
	})

	t.Run("imports", func(t *testing.T) {
		fetch := func(_ context.Context, name string) (*script.Script, error) {
			require.Equal(t, "base", name)
			return script.Parse([]byte("steps: [{name: Step-1, procedure: STATIC_GENERAL}]"))
		}
		data := []byte(`
imports: [base]
operations:
  - {op: create, kind: DisplacementBC, key: BC-1, step: Step-1, fields: {region: {set: Edge}, u1: 0.5}}
`)
		m, err := stepwise.Load(ctx, data, fetch)
		require.NoError(t, err)
		e, err := m.Entity("boundaryConditions", "BC-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCreated, e.Status("Step-1"))
	})

	t.Run("imports without library", func(t *testing.T) {
		_, err := stepwise.Load(ctx, []byte("imports: [base]"), nil)
		require.Error(t, err)
	})

	t.Run("failing operation", func(t *testing.T) {
		data := []byte(`
operations:
  - {op: create, kind: DisplacementBC, key: BC-1, step: Nope, fields: {region: {set: Edge}}}
`)
		_, err := stepwise.Load(ctx, data, nil)
		assert.ErrorIs(t, err, domain.ErrValue)
		var opErr *script.OpError
		assert.ErrorAs(t, err, &opErr)
	})
}
