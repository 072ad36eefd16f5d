package observability

import (
	"log/slog"

	"github.com/aretw0/stepwise/pkg/domain"
)

// LogHooks returns lifecycle hooks that log accepted operations at Debug
// and rejected ones at Warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEntity: func(e *domain.EntityEvent) {
			attrs := []any{
				"model", e.Model,
				"repository", e.Repository,
				"key", e.Key,
				"op", e.Op,
			}
			if e.Kind != "" {
				attrs = append(attrs, "kind", e.Kind)
			}
			if e.Step != "" {
				attrs = append(attrs, "step", e.Step)
			}
			if e.Err != nil {
				logger.Warn("entity operation rejected", append(attrs, "err", e.Err)...)
				return
			}
			logger.Debug("entity operation", attrs...)
		},
		OnStep: func(e *domain.StepEvent) {
			attrs := []any{"model", e.Model, "step", e.Step, "type", e.Type}
			if e.Err != nil {
				logger.Warn("step change rejected", append(attrs, "err", e.Err)...)
				return
			}
			logger.Debug("step change", append(attrs, "procedure", e.Procedure)...)
		},
	}
}
