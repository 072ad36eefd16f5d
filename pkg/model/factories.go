package model

import (
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/entity"
	"github.com/aretw0/stepwise/pkg/kinds"
)

// TypeBC creates a symmetry, antisymmetry, pinned or encastre boundary
// condition. extra may carry the optional creation fields (localCsys,
// buckleCase); it cannot override the variant.
func (m *Model) TypeBC(variant domain.Symbol, key, step string, region domain.Region, extra domain.Values) (*entity.Entity, error) {
	values := extra.Merge(domain.Values{"typeName": variant, "region": region})
	return m.Create(kinds.TypeBC.Name, key, step, values)
}

// EncastreBC fixes all displacements and rotations of region.
func (m *Model) EncastreBC(key, step string, region domain.Region) (*entity.Entity, error) {
	return m.TypeBC(kinds.Encastre, key, step, region, nil)
}

// PinnedBC fixes all displacements of region.
func (m *Model) PinnedBC(key, step string, region domain.Region) (*entity.Entity, error) {
	return m.TypeBC(kinds.Pinned, key, step, region, nil)
}

// XsymmBC imposes symmetry about a plane of constant X.
func (m *Model) XsymmBC(key, step string, region domain.Region) (*entity.Entity, error) {
	return m.TypeBC(kinds.Xsymm, key, step, region, nil)
}

// YsymmBC imposes symmetry about a plane of constant Y.
func (m *Model) YsymmBC(key, step string, region domain.Region) (*entity.Entity, error) {
	return m.TypeBC(kinds.Ysymm, key, step, region, nil)
}

// ZsymmBC imposes symmetry about a plane of constant Z.
func (m *Model) ZsymmBC(key, step string, region domain.Region) (*entity.Entity, error) {
	return m.TypeBC(kinds.Zsymm, key, step, region, nil)
}

// XasymmBC imposes antisymmetry about a plane of constant X.
func (m *Model) XasymmBC(key, step string, region domain.Region) (*entity.Entity, error) {
	return m.TypeBC(kinds.Xasymm, key, step, region, nil)
}

// YasymmBC imposes antisymmetry about a plane of constant Y.
func (m *Model) YasymmBC(key, step string, region domain.Region) (*entity.Entity, error) {
	return m.TypeBC(kinds.Yasymm, key, step, region, nil)
}

// ZasymmBC imposes antisymmetry about a plane of constant Z.
func (m *Model) ZasymmBC(key, step string, region domain.Region) (*entity.Entity, error) {
	return m.TypeBC(kinds.Zasymm, key, step, region, nil)
}
