package script

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/schema"
)

// Operation names accepted besides the recorded step operations.
const (
	OpCreate   = "create"
	OpRedefine = "redefine"
	OpDelete   = "delete"
)

// OpError reports the operation that aborted a script.
type OpError struct {
	Index int
	Op    Operation
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("operation %d (%s %s): %v", e.Index, e.Op.Op, e.Op.Key, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Apply declares the script's steps and reference targets on m, then runs
// its operations in order. The first failure aborts; earlier operations
// stay applied, so callers that need atomicity apply to a copy.
func Apply(m *model.Model, s *Script) error {
	for _, st := range s.Steps {
		var err error
		if st.After == "" {
			err = m.AppendStep(st.Name, domain.Symbol(st.Procedure))
		} else {
			err = m.InsertStep(st.Name, domain.Symbol(st.Procedure), st.After)
		}
		if err != nil {
			return fmt.Errorf("step %s: %w", st.Name, err)
		}
	}
	for _, a := range s.Amplitudes {
		if err := addAmplitude(m, a); err != nil {
			return fmt.Errorf("amplitude %s: %w", a.Name, err)
		}
	}
	for _, p := range s.InteractionProperties {
		if _, err := m.AddInteractionProperty(p.Name, domain.Symbol(p.Type)); err != nil {
			return fmt.Errorf("interaction property %s: %w", p.Name, err)
		}
	}
	for i, op := range s.Operations {
		if err := applyOp(m, op); err != nil {
			return &OpError{Index: i, Op: op, Err: err}
		}
	}
	return nil
}

func addAmplitude(m *model.Model, a AmplitudeDecl) error {
	v, err := schema.Table(2).Coerce(a.Data)
	if err != nil {
		return domain.NewValueError("amplitude", a.Name, "%v", err)
	}
	_, err = m.AddAmplitude(a.Name, v.(domain.Table))
	return err
}

func applyOp(m *model.Model, op Operation) error {
	switch op.Op {
	case OpCreate:
		if op.Kind == "" {
			return domain.NewValueError(op.Op, op.Key, "kind is required")
		}
		if op.Repository != "" {
			k, err := m.Registry().Lookup(op.Kind)
			if err != nil {
				return err
			}
			if string(k.Family) != op.Repository {
				return domain.NewValueError(op.Op, op.Key, "kind %s belongs to %s, not %s", k.Name, k.Family, op.Repository)
			}
		}
		_, err := m.Create(op.Kind, op.Key, op.Step, op.Fields)
		return err
	}

	repo, err := repositoryOf(m, op)
	if err != nil {
		return err
	}

	switch op.Op {
	case OpDelete:
		return m.Delete(repo, op.Key)
	case OpRedefine:
		ctx := op.Context
		if ctx == "" {
			ctx = op.Step
		}
		return m.Redefine(repo, op.Key, ctx, op.Fields)
	case string(domain.OpAmend):
		values, err := op.Values()
		if err != nil {
			return err
		}
		return m.Amend(repo, op.Key, op.Step, values)
	}

	kind, err := domain.ParseOpKind(op.Op)
	if err != nil {
		return domain.NewValueError(op.Op, op.Key, "%v", err)
	}
	return m.Apply(repo, op.Key, domain.Op{Kind: kind, Step: op.Step})
}

// repositoryOf returns the explicit repository, or the single repository
// holding the key.
func repositoryOf(m *model.Model, op Operation) (string, error) {
	if op.Repository != "" {
		return op.Repository, nil
	}
	var found []string
	for _, repo := range m.Repositories() {
		if repo.Has(op.Key) {
			found = append(found, repo.Scope())
		}
	}
	switch len(found) {
	case 0:
		return "", &domain.KeyNotFoundError{Scope: m.Name(), Key: op.Key}
	case 1:
		return found[0], nil
	}
	return "", domain.NewValueError(op.Op, op.Key, "key exists in %v; name the repository", found)
}
