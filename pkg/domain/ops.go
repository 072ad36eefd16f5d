package domain

import (
	"encoding/json"
	"fmt"
)

// OpKind names a step-scoped operation recorded against an entity.
type OpKind string

const (
	OpAmend               OpKind = "amend"
	OpDeactivate          OpKind = "deactivate"
	OpDeactivateToInitial OpKind = "deactivateToInitial"
	OpReactivate          OpKind = "reactivate"
	OpReset               OpKind = "reset"
	OpCompute             OpKind = "compute"
	OpBuildIntoBase       OpKind = "buildIntoBase"
	OpRetire              OpKind = "retire"
	OpNotApplicable       OpKind = "notApplicable"
)

// OpKinds lists every recordable operation.
var OpKinds = []OpKind{
	OpAmend,
	OpDeactivate,
	OpDeactivateToInitial,
	OpReactivate,
	OpReset,
	OpCompute,
	OpBuildIntoBase,
	OpRetire,
	OpNotApplicable,
}

// ParseOpKind validates a recorded operation name.
func ParseOpKind(s string) (OpKind, error) {
	for _, k := range OpKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// Op is one entry of an entity's step-scoped call history.
// Values is only used by OpAmend and may hold Sentinel values.
type Op struct {
	Kind   OpKind
	Step   string
	Values Values
}

type opJSON struct {
	Kind      OpKind              `json:"op"`
	Step      string              `json:"step"`
	Fields    Values              `json:"fields,omitempty"`
	Sentinels map[string]Sentinel `json:"sentinels,omitempty"`
}

// MarshalJSON keeps sentinels apart from literal values, so a symbolic
// literal spelled like a sentinel survives a round trip.
func (o Op) MarshalJSON() ([]byte, error) {
	out := opJSON{Kind: o.Kind, Step: o.Step}
	for name, v := range o.Values {
		if s, ok := IsSentinel(v); ok {
			if out.Sentinels == nil {
				out.Sentinels = make(map[string]Sentinel)
			}
			out.Sentinels[name] = s
			continue
		}
		if out.Fields == nil {
			out.Fields = make(Values)
		}
		out.Fields[name] = v
	}
	return json.Marshal(out)
}

func (o *Op) UnmarshalJSON(data []byte) error {
	var in opJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, err := ParseOpKind(string(in.Kind))
	if err != nil {
		return err
	}
	o.Kind = kind
	o.Step = in.Step
	o.Values = nil
	if len(in.Fields)+len(in.Sentinels) > 0 {
		o.Values = make(Values, len(in.Fields)+len(in.Sentinels))
		for k, v := range in.Fields {
			o.Values[k] = v
		}
		for k, s := range in.Sentinels {
			if _, ok := IsSentinel(s); !ok {
				return fmt.Errorf("field %q: unknown sentinel %q", k, s)
			}
			o.Values[k] = s
		}
	}
	return nil
}

// Clone returns an Op whose values do not alias o.
func (o Op) Clone() Op {
	return Op{Kind: o.Kind, Step: o.Step, Values: o.Values.Clone()}
}
