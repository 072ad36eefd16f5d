package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/schema"
)

func TestRegistry(t *testing.T) {
	r := New()
	bc := &schema.Kind{Name: "TypeBC", Family: schema.FamilyBoundaryCondition}
	load := &schema.Kind{Name: "Pressure", Family: schema.FamilyLoad}

	require.NoError(t, r.Register(bc))
	require.NoError(t, r.Register(load))

	err := r.Register(&schema.Kind{Name: "TypeBC"})
	assert.ErrorIs(t, err, domain.ErrKeyCollision)

	got, err := r.Lookup("Pressure")
	require.NoError(t, err)
	assert.Same(t, load, got)

	_, err = r.Lookup("Gravity")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	assert.Equal(t, []*schema.Kind{bc, load}, r.Kinds())
	assert.Equal(t, []*schema.Kind{bc}, r.ByFamily(schema.FamilyBoundaryCondition))
	assert.Empty(t, r.ByFamily(schema.FamilyInteraction))
}
