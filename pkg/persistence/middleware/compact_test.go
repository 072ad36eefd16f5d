package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/persistence/middleware"
)

func TestCompactMiddleware_DropsDerivedStates(t *testing.T) {
	m := model.New("M")
	require.NoError(t, m.AppendStep("Load", "STATIC_GENERAL"))
	_, err := m.Create("DisplacementBC", "Fix", "Load", domain.Values{"region": domain.Region{Set: "Base"}, "u1": 0.0})
	require.NoError(t, err)

	underlying := memory.NewStore()
	store := middleware.Chain(underlying, middleware.NewCompactMiddleware())
	ctx := context.Background()

	snap := m.Snapshot()
	require.NotEmpty(t, snap.Entities[0].States)
	require.NoError(t, store.Save(ctx, "M", snap))
	assert.NotEmpty(t, snap.Entities[0].States, "caller's snapshot is untouched")

	stored, err := underlying.Load(ctx, "M")
	require.NoError(t, err)
	assert.Empty(t, stored.Entities[0].States)

	restored, err := model.Restore(stored)
	require.NoError(t, err)
	e, err := restored.Entity("boundaryConditions", "Fix")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCreated, e.Status("Load"))
}

func TestChain_Order(t *testing.T) {
	key := generateKey(t)
	enc := mustEncrypt(t, middleware.EncryptionConfig{ActiveKey: key})

	underlying := memory.NewStore()
	store := middleware.Chain(underlying, middleware.NewCompactMiddleware(), enc)
	ctx := context.Background()

	m := model.New("M")
	require.NoError(t, store.Save(ctx, "M", m.Snapshot()))

	stored, err := underlying.Load(ctx, "M")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed, "encryption runs innermost")

	loaded, err := store.Load(ctx, "M")
	require.NoError(t, err)
	assert.Equal(t, "M", loaded.Name)
}
