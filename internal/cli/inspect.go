package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/stepwise/internal/dto"
	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/internal/presentation/report"
	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/aretw0/stepwise/pkg/entity"
	"github.com/aretw0/stepwise/pkg/kinds"
	"github.com/aretw0/stepwise/pkg/model"
)

// ParseTarget splits "repository/key".
func ParseTarget(target string) (repo, key string, err error) {
	repo, key, ok := strings.Cut(target, "/")
	if !ok || repo == "" || key == "" {
		return "", "", fmt.Errorf("invalid target %q (want repository/key)", target)
	}
	return repo, key, nil
}

func loadEntity(ctx context.Context, env *Env, name, target string) (*model.Model, *entity.Entity, error) {
	repo, key, err := ParseTarget(target)
	if err != nil {
		return nil, nil, err
	}
	m, err := env.Manager.Load(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	e, err := m.Entity(repo, key)
	if err != nil {
		return nil, nil, err
	}
	return m, e, nil
}

// Inspect prints a model overview, or one entity when target is set.
func Inspect(ctx context.Context, env *Env, name, target, format string, w io.Writer) error {
	if target == "" {
		m, err := env.Manager.Load(ctx, name)
		if err != nil {
			return err
		}
		return Write(w, format, report.Model(m), dto.NewModelView(m))
	}
	m, e, err := loadEntity(ctx, env, name, target)
	if err != nil {
		return err
	}
	return Write(w, format, report.Entity(e), dto.NewEntityDetail(e, m.Steps()))
}

// Diff prints what changes step to step for one entity.
func Diff(ctx context.Context, env *Env, name, target, format string, w io.Writer) error {
	m, e, err := loadEntity(ctx, env, name, target)
	if err != nil {
		return err
	}
	return Write(w, format, report.Diff(e), dto.NewEntityDetail(e, m.Steps()))
}

// Graph prints a Mermaid timeline of one entity, or of every entity of the
// model when target is empty. step highlights one step.
func Graph(ctx context.Context, env *Env, name, target, step string, w io.Writer) error {
	m, err := env.Manager.Load(ctx, name)
	if err != nil {
		return err
	}
	var timelines []graph.Timeline
	if target != "" {
		repo, key, err := ParseTarget(target)
		if err != nil {
			return err
		}
		e, err := m.Entity(repo, key)
		if err != nil {
			return err
		}
		timelines = append(timelines, timeline(e))
	} else {
		for e := range m.All() {
			timelines = append(timelines, timeline(e))
		}
	}
	var overlay *graph.Overlay
	if step != "" {
		if m.Index(step) < 0 {
			return fmt.Errorf("step not found: %s", step)
		}
		overlay = &graph.Overlay{CurrentStep: step}
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(timelines, overlay))
	return err
}

func timeline(e *entity.Entity) graph.Timeline {
	return graph.Timeline{
		ID:     e.Scope() + "_" + e.Key(),
		Label:  e.Scope() + "/" + e.Key(),
		States: e.States(),
		Ops:    e.Ops(),
	}
}

// ListModels prints the stored model names.
func ListModels(ctx context.Context, env *Env, w io.Writer) error {
	names, err := env.Manager.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

// RemoveModels deletes the named models.
func RemoveModels(ctx context.Context, env *Env, names []string, w io.Writer) error {
	for _, name := range names {
		if err := env.Manager.Delete(ctx, name); err != nil {
			return fmt.Errorf("failed to delete %s: %w", name, err)
		}
		printSystemMessage(w, "Model '%s' deleted.", name)
	}
	return nil
}

// Kinds prints the built-in kind catalog.
func Kinds(format string, w io.Writer) error {
	ks := kinds.Default().Kinds()
	return Write(w, format, report.Kinds(ks), dto.NewKindViews(ks))
}

// Status prints the status matrix of a model, one colored line per entity.
func Status(ctx context.Context, env *Env, name string, w io.Writer) error {
	m, err := env.Manager.Load(ctx, name)
	if err != nil {
		return err
	}
	p := termenv.Ascii
	if tui.IsTerminal(w) {
		p = termenv.EnvColorProfile()
	}
	steps := m.Steps()
	for e := range m.All() {
		fmt.Fprintf(w, "%s/%s", e.Scope(), e.Key())
		for _, st := range steps {
			fmt.Fprintf(w, "  %s=%s", st.Name, tui.StatusString(p, e.Status(st.Name)))
		}
		fmt.Fprintln(w)
	}
	return nil
}
