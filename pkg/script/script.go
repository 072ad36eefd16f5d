// Package script reads model scripts: a step sequence, foreign-key targets
// and an ordered list of entity operations, written in YAML or JSON.
//
//	model: Model-1
//	steps:
//	  - {name: Step-1, procedure: SOILS}
//	operations:
//	  - {op: create, kind: PorePressureBC, key: BC-1, step: Step-1, fields: {region: {set: Soil}}}
//	  - {op: amend, key: BC-1, step: Step-2, fields: {magnitude: 20}, free: [amplitude]}
package script

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Script is a decoded model script.
type Script struct {
	Model                 string          `mapstructure:"model" json:"model,omitempty"`
	Imports               []string        `mapstructure:"imports" json:"imports,omitempty"`
	Steps                 []StepDecl      `mapstructure:"steps" json:"steps,omitempty"`
	Amplitudes            []AmplitudeDecl `mapstructure:"amplitudes" json:"amplitudes,omitempty"`
	InteractionProperties []PropertyDecl  `mapstructure:"interactionProperties" json:"interactionProperties,omitempty"`
	Operations            []Operation     `mapstructure:"operations" json:"operations,omitempty"`
}

// StepDecl declares a step. An empty After appends to the sequence.
type StepDecl struct {
	Name      string `mapstructure:"name" json:"name"`
	Procedure string `mapstructure:"procedure" json:"procedure"`
	After     string `mapstructure:"after" json:"after,omitempty"`
}

// AmplitudeDecl declares a named amplitude table.
type AmplitudeDecl struct {
	Name string `mapstructure:"name" json:"name"`
	Data any    `mapstructure:"data" json:"data"`
}

// PropertyDecl declares a named interaction property.
type PropertyDecl struct {
	Name string `mapstructure:"name" json:"name"`
	Type string `mapstructure:"type" json:"type"`
}

// Operation is one entity call.
type Operation struct {
	Op         string         `mapstructure:"op" json:"op"`
	Repository string         `mapstructure:"repository" json:"repository,omitempty"`
	Kind       string         `mapstructure:"kind" json:"kind,omitempty"`
	Key        string         `mapstructure:"key" json:"key"`
	Step       string         `mapstructure:"step" json:"step,omitempty"`
	Context    string         `mapstructure:"context" json:"context,omitempty"`
	Fields     map[string]any `mapstructure:"fields" json:"fields,omitempty"`
	Unchanged  []string       `mapstructure:"unchanged" json:"unchanged,omitempty"`
	Free       []string       `mapstructure:"free" json:"free,omitempty"`
	Computed   []string       `mapstructure:"computed" json:"computed,omitempty"`
}

// Values merges literal fields and sentinel lists into one amendment patch.
// A field listed twice is an error.
func (o Operation) Values() (domain.Values, error) {
	out := make(domain.Values, len(o.Fields))
	for k, v := range o.Fields {
		out[k] = v
	}
	for _, group := range []struct {
		names    []string
		sentinel domain.Sentinel
	}{
		{o.Unchanged, domain.Unchanged},
		{o.Free, domain.Freed},
		{o.Computed, domain.Computed},
	} {
		for _, name := range group.names {
			if _, dup := out[name]; dup {
				return nil, domain.NewValueError(o.Op, name, "field given more than once")
			}
			out[name] = group.sentinel
		}
	}
	return out, nil
}

// Parse decodes a YAML or JSON script.
func Parse(data []byte) (*Script, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if raw == nil {
		return nil, errors.New("empty script")
	}
	return Decode(raw)
}

// ParseFile reads and decodes a script file.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Decode converts generic document data into a Script. Unknown keys are errors.
func Decode(raw map[string]any) (*Script, error) {
	var s Script
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &s,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the fields every declaration and operation needs.
func (s *Script) Validate() error {
	for i, op := range s.Operations {
		if op.Op == "" {
			return fmt.Errorf("operation %d: missing op", i)
		}
		if op.Key == "" {
			return fmt.Errorf("operation %d: missing key", i)
		}
	}
	for i, st := range s.Steps {
		if st.Name == "" || st.Procedure == "" {
			return fmt.Errorf("step %d: name and procedure are required", i)
		}
	}
	return nil
}

// Merge returns a script whose declarations are base's followed by s's.
// The model name of s wins when set.
func (s *Script) Merge(base *Script) *Script {
	out := &Script{Model: base.Model}
	if s.Model != "" {
		out.Model = s.Model
	}
	out.Steps = append(append(out.Steps, base.Steps...), s.Steps...)
	out.Amplitudes = append(append(out.Amplitudes, base.Amplitudes...), s.Amplitudes...)
	out.InteractionProperties = append(append(out.InteractionProperties, base.InteractionProperties...), s.InteractionProperties...)
	out.Operations = append(append(out.Operations, base.Operations...), s.Operations...)
	return out
}
