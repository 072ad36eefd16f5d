// Package constants provides the ConstantDomain: closed, named sets of
// symbolic tokens, one per semantic axis.
//
// The default domain is loaded once from an embedded catalog and is immutable;
// every accessor returns copies.
package constants

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Axis names a semantic vocabulary.
type Axis string

const (
	AxisStatus                    Axis = "status"
	AxisFieldStatus               Axis = "fieldStatus"
	AxisProcedure                 Axis = "procedure"
	AxisTypeName                  Axis = "typeName"
	AxisBuckleCase                Axis = "buckleCase"
	AxisCategory                  Axis = "category"
	AxisDistributionType          Axis = "distributionType"
	AxisCrossSectionDistribution  Axis = "crossSectionDistribution"
	AxisInterferenceType          Axis = "interferenceType"
	AxisInterferenceDirectionType Axis = "interferenceDirectionType"
	AxisSliding                   Axis = "sliding"
	AxisEnforcement               Axis = "enforcement"
	AxisImpedanceDefinition       Axis = "impedanceDefinition"
	AxisTimeSpan                  Axis = "timeSpan"
	AxisPropertyType              Axis = "propertyType"
)

//go:embed catalog.yaml
var catalog []byte

// Domain is an immutable set of axes.
type Domain struct {
	axes    []Axis
	tokens  map[Axis][]domain.Symbol
	members map[Axis]map[domain.Symbol]struct{}
}

type catalogFile struct {
	Axes []struct {
		Name   string   `yaml:"name"`
		Tokens []string `yaml:"tokens"`
	} `yaml:"axes"`
}

// Parse builds a Domain from a YAML catalog.
func Parse(data []byte) (*Domain, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse constant catalog: %w", err)
	}

	d := &Domain{
		tokens:  make(map[Axis][]domain.Symbol, len(file.Axes)),
		members: make(map[Axis]map[domain.Symbol]struct{}, len(file.Axes)),
	}
	for _, a := range file.Axes {
		axis := Axis(a.Name)
		if axis == "" {
			return nil, fmt.Errorf("constant catalog: axis without name")
		}
		if _, dup := d.tokens[axis]; dup {
			return nil, fmt.Errorf("constant catalog: duplicate axis %q", axis)
		}
		if len(a.Tokens) == 0 {
			return nil, fmt.Errorf("constant catalog: axis %q has no tokens", axis)
		}

		set := make(map[domain.Symbol]struct{}, len(a.Tokens))
		list := make([]domain.Symbol, 0, len(a.Tokens))
		for _, tok := range a.Tokens {
			sym := domain.Symbol(tok)
			if _, dup := set[sym]; dup {
				return nil, fmt.Errorf("constant catalog: duplicate token %q in axis %q", tok, axis)
			}
			set[sym] = struct{}{}
			list = append(list, sym)
		}

		d.axes = append(d.axes, axis)
		d.tokens[axis] = list
		d.members[axis] = set
	}
	return d, nil
}

var (
	defaultOnce   sync.Once
	defaultDomain *Domain
)

// Default returns the process-wide domain built from the embedded catalog.
func Default() *Domain {
	defaultOnce.Do(func() {
		d, err := Parse(catalog)
		if err != nil {
			panic(err)
		}
		defaultDomain = d
	})
	return defaultDomain
}

// Validate returns value unchanged if it belongs to axis, otherwise a
// *domain.RangeError naming the axis and its legal tokens.
func (d *Domain) Validate(axis Axis, value domain.Symbol) (domain.Symbol, error) {
	set, ok := d.members[axis]
	if !ok {
		return value, &domain.RangeError{Axis: string(axis), Value: value, Reason: "unknown axis"}
	}
	if _, ok := set[value]; !ok {
		return value, &domain.RangeError{Axis: string(axis), Value: value, Legal: d.legal(axis)}
	}
	return value, nil
}

// Contains reports membership without building an error.
func (d *Domain) Contains(axis Axis, value domain.Symbol) bool {
	_, ok := d.members[axis][value]
	return ok
}

// Tokens returns the ordered tokens of axis, or nil if unknown.
func (d *Domain) Tokens(axis Axis) []domain.Symbol {
	return slices.Clone(d.tokens[axis])
}

// Axes returns the axis names in catalog order.
func (d *Domain) Axes() []Axis {
	return slices.Clone(d.axes)
}

func (d *Domain) legal(axis Axis) []string {
	out := make([]string, len(d.tokens[axis]))
	for i, t := range d.tokens[axis] {
		out[i] = string(t)
	}
	return out
}

// Validate checks value against the default domain.
func Validate(axis Axis, value domain.Symbol) (domain.Symbol, error) {
	return Default().Validate(axis, value)
}
