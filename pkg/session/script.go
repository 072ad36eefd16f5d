package session

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/script"
)

// ApplyScript runs s against the named model, creating the model when it is
// missing. A script naming a different model is rejected. The first failing
// operation aborts and the stored model is left unchanged.
func (m *Manager) ApplyScript(ctx context.Context, name string, s *script.Script) (*model.Model, error) {
	if s.Model != "" && s.Model != name {
		return nil, domain.NewValueError("apply", name, "script targets model %s", s.Model)
	}
	return m.Update(ctx, name, true, func(mdl *model.Model) error {
		return script.Apply(mdl, s)
	})
}
