// Package model is the explicit context object that owns an ordered step
// sequence, the entity repositories and the foreign-key targets. Every
// operation goes through a Model handle; there is no global session.
package model

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/constants"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/entity"
	"github.com/aretw0/stepwise/pkg/kinds"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/aretw0/stepwise/pkg/repository"
	"github.com/aretw0/stepwise/pkg/schema"
)

// Entities is a repository of step-scoped entities.
type Entities = repository.Repository[*entity.Entity]

// Amplitude is a named time/amplitude table referenced by Ref("amplitudes") fields.
type Amplitude struct {
	Name string
	Data domain.Table
}

// InteractionProperty is a named property referenced by Ref("interactionProperties") fields.
type InteractionProperty struct {
	Name string
	Type domain.Symbol
}

// Model holds one analysis configuration. It is single-writer: callers that
// share a Model across goroutines serialize access, see pkg/session.
type Model struct {
	name  string
	steps []domain.Step

	BoundaryConditions    *Entities
	Loads                 *Entities
	Interactions          *Entities
	PredefinedFields      *Entities
	Amplitudes            *repository.Repository[*Amplitude]
	InteractionProperties *repository.Repository[*InteractionProperty]

	registry  *registry.Registry
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	checkRefs bool
	now       func() time.Time
}

// Option configures a Model.
type Option func(*Model)

// WithRegistry sets the kind registry. The default holds the built-in kinds.
func WithRegistry(r *registry.Registry) Option {
	return func(m *Model) {
		m.registry = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Model) {
		m.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithoutReferenceCheck accepts foreign keys without checking their targets.
func WithoutReferenceCheck() Option {
	return func(m *Model) {
		m.checkRefs = false
	}
}

// New creates an empty model whose step sequence holds only the initial step.
func New(name string, opts ...Option) *Model {
	m := &Model{
		name:      name,
		steps:     []domain.Step{{Name: domain.InitialStep, Procedure: domain.ProcedureInitial}},
		registry:  kinds.Default(),
		logger:    logging.NewNop(),
		checkRefs: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	release := repository.WithOnDelete(func(_ string, e *entity.Entity) { e.Release() })
	m.BoundaryConditions = repository.New(string(schema.FamilyBoundaryCondition), release)
	m.Loads = repository.New(string(schema.FamilyLoad), release)
	m.Interactions = repository.New(string(schema.FamilyInteraction), release)
	m.PredefinedFields = repository.New(string(schema.FamilyPredefinedField), release)
	m.Amplitudes = repository.New[*Amplitude](kinds.Amplitudes)
	m.InteractionProperties = repository.New[*InteractionProperty](kinds.InteractionProperties)
	return m
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Registry returns the kind registry used by Create.
func (m *Model) Registry() *registry.Registry { return m.registry }

// Steps returns a copy of the ordered step sequence.
func (m *Model) Steps() []domain.Step { return slices.Clone(m.steps) }

// Index returns the position of the named step, or -1.
func (m *Model) Index(name string) int {
	return slices.IndexFunc(m.steps, func(s domain.Step) bool { return s.Name == name })
}

// Resolve checks a foreign key against the amplitude and interaction
// property repositories.
func (m *Model) Resolve(target, name string) error {
	var found bool
	switch target {
	case kinds.Amplitudes:
		found = m.Amplitudes.Has(name)
	case kinds.InteractionProperties:
		found = m.InteractionProperties.Has(name)
	default:
		return fmt.Errorf("unknown reference target %q", target)
	}
	if !found {
		return &domain.KeyNotFoundError{Scope: target, Key: name}
	}
	return nil
}

// Context returns the handle entities of this model operate against.
func (m *Model) Context() entity.Context {
	ctx := entity.Context{Steps: m}
	if m.checkRefs {
		ctx.Refs = m
	}
	return ctx
}

// Repository returns the entity repository of a family.
func (m *Model) Repository(name string) (*Entities, error) {
	switch schema.Family(name) {
	case schema.FamilyBoundaryCondition:
		return m.BoundaryConditions, nil
	case schema.FamilyLoad:
		return m.Loads, nil
	case schema.FamilyInteraction:
		return m.Interactions, nil
	case schema.FamilyPredefinedField:
		return m.PredefinedFields, nil
	}
	return nil, &domain.KeyNotFoundError{Scope: "repositories", Key: name}
}

// Repositories returns the entity repositories in a fixed order.
func (m *Model) Repositories() []*Entities {
	return []*Entities{m.BoundaryConditions, m.Loads, m.Interactions, m.PredefinedFields}
}

// InsertStep adds a step after an existing one. Every entity re-derives;
// the new step inherits by the default transition.
func (m *Model) InsertStep(name string, procedure domain.Symbol, after string) error {
	err := m.insertStep(name, procedure, after)
	m.emitStep(domain.EventStepInsert, name, procedure, err)
	return err
}

func (m *Model) insertStep(name string, procedure domain.Symbol, after string) error {
	if name == "" {
		return domain.NewValueError("insertStep", "", "step name is empty")
	}
	if procedure == domain.ProcedureInitial {
		return domain.NewValueError("insertStep", name, "only the initial step uses procedure %s", procedure)
	}
	if _, err := constants.Validate(constants.AxisProcedure, procedure); err != nil {
		return err
	}
	if m.Index(name) >= 0 {
		return &domain.KeyCollisionError{Scope: "steps", Key: name}
	}
	at := m.Index(after)
	if at < 0 {
		return &domain.KeyNotFoundError{Scope: "steps", Key: after}
	}

	prev := m.steps
	m.steps = slices.Insert(slices.Clone(m.steps), at+1, domain.Step{Name: name, Procedure: procedure})
	if err := m.refresh(); err != nil {
		m.steps = prev
		_ = m.refresh()
		return err
	}
	m.logger.Debug("step inserted", "model", m.name, "step", name, "procedure", procedure)
	return nil
}

// AppendStep adds a step at the end of the sequence.
func (m *Model) AppendStep(name string, procedure domain.Symbol) error {
	return m.InsertStep(name, procedure, m.steps[len(m.steps)-1].Name)
}

// DeleteStep removes a step no entity was created in or has a recorded call on.
func (m *Model) DeleteStep(name string) error {
	err := m.deleteStep(name)
	m.emitStep(domain.EventStepDelete, name, "", err)
	return err
}

func (m *Model) deleteStep(name string) error {
	at := m.Index(name)
	if at < 0 {
		return &domain.KeyNotFoundError{Scope: "steps", Key: name}
	}
	if at == 0 {
		return domain.NewValueError("deleteStep", name, "the initial step cannot be deleted")
	}
	for _, repo := range m.Repositories() {
		for key, e := range repo.All() {
			if e.Targets(name) {
				return domain.NewValueError("deleteStep", name, "step is used by %s/%s", repo.Scope(), key)
			}
		}
	}
	prev := m.steps
	m.steps = slices.Delete(slices.Clone(m.steps), at, at+1)
	if err := m.refresh(); err != nil {
		m.steps = prev
		_ = m.refresh()
		return err
	}
	m.logger.Debug("step deleted", "model", m.name, "step", name)
	return nil
}

func (m *Model) refresh() error {
	for _, repo := range m.Repositories() {
		for _, e := range repo.All() {
			if err := e.Refresh(); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddAmplitude registers a named amplitude table.
func (m *Model) AddAmplitude(name string, data domain.Table) (*Amplitude, error) {
	return m.Amplitudes.Create(name, func() (*Amplitude, error) {
		v, err := schema.Table(2).Coerce(data)
		if err != nil {
			return nil, &domain.ValueError{Op: "addAmplitude", Target: name, Reason: err.Error()}
		}
		return &Amplitude{Name: name, Data: v.(domain.Table)}, nil
	})
}

// AddInteractionProperty registers a named interaction property.
func (m *Model) AddInteractionProperty(name string, typ domain.Symbol) (*InteractionProperty, error) {
	return m.InteractionProperties.Create(name, func() (*InteractionProperty, error) {
		if _, err := constants.Validate(constants.AxisPropertyType, typ); err != nil {
			return nil, err
		}
		return &InteractionProperty{Name: name, Type: typ}, nil
	})
}

// Create builds an entity of the named kind in step and stores it in the
// repository of the kind's family.
func (m *Model) Create(kindName, key, step string, values domain.Values) (*entity.Entity, error) {
	k, err := m.registry.Lookup(kindName)
	if err != nil {
		return nil, err
	}
	repo, err := m.Repository(string(k.Family))
	if err != nil {
		return nil, err
	}
	e, err := repo.Create(key, func() (*entity.Entity, error) {
		return entity.New(m.Context(), repo.Scope(), key, k, step, values)
	})
	m.emitEntity(domain.EventEntityCreate, repo.Scope(), key, k.Name, "create", step, err)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("entity created", "model", m.name, "repository", repo.Scope(), "key", key, "kind", k.Name, "step", step)
	return e, nil
}

// Entity returns the entity stored under key in the named repository.
func (m *Model) Entity(repoName, key string) (*entity.Entity, error) {
	repo, err := m.Repository(repoName)
	if err != nil {
		return nil, err
	}
	return repo.Get(key)
}

// Delete removes an entity and its derived states.
func (m *Model) Delete(repoName, key string) error {
	repo, err := m.Repository(repoName)
	if err != nil {
		return err
	}
	var kind string
	if e, err := repo.Get(key); err == nil {
		kind = e.Kind().Name
	}
	err = repo.Delete(key)
	m.emitEntity(domain.EventEntityDelete, repoName, key, kind, "delete", "", err)
	return err
}

// Redefine replaces creation definition fields of an entity, issued from contextStep.
func (m *Model) Redefine(repoName, key, contextStep string, values domain.Values) error {
	return m.mutate(repoName, key, "redefine", contextStep, func(e *entity.Entity) error {
		return e.Redefine(contextStep, values)
	})
}

// Amend changes propagating fields of an entity from step forward.
func (m *Model) Amend(repoName, key, step string, values domain.Values) error {
	return m.mutate(repoName, key, string(domain.OpAmend), step, func(e *entity.Entity) error {
		return e.AmendInStep(step, values)
	})
}

// Apply records one step-scoped operation against an entity.
func (m *Model) Apply(repoName, key string, op domain.Op) error {
	return m.mutate(repoName, key, string(op.Kind), op.Step, func(e *entity.Entity) error {
		return e.Apply(op)
	})
}

func (m *Model) mutate(repoName, key, op, step string, fn func(*entity.Entity) error) error {
	e, err := m.Entity(repoName, key)
	if err != nil {
		return err
	}
	err = fn(e)
	m.emitEntity(domain.EventEntityMutate, repoName, key, e.Kind().Name, op, step, err)
	if err == nil {
		m.logger.Debug("entity mutated", "model", m.name, "repository", repoName, "key", key, "op", op, "step", step)
	}
	return err
}

// All yields every entity across the repositories in a fixed repository
// order, then insertion order.
func (m *Model) All() iter.Seq[*entity.Entity] {
	return func(yield func(*entity.Entity) bool) {
		for _, repo := range m.Repositories() {
			for _, e := range repo.All() {
				if !yield(e) {
					return
				}
			}
		}
	}
}

func (m *Model) emitEntity(t domain.EventType, repo, key, kind, op, step string, err error) {
	if m.hooks.OnEntity == nil {
		return
	}
	m.hooks.OnEntity(&domain.EntityEvent{
		EventBase:  domain.EventBase{Timestamp: m.now(), Type: t, Model: m.name},
		Repository: repo,
		Key:        key,
		Kind:       kind,
		Op:         op,
		Step:       step,
		Err:        err,
	})
}

func (m *Model) emitStep(t domain.EventType, step string, procedure domain.Symbol, err error) {
	if m.hooks.OnStep == nil {
		return
	}
	m.hooks.OnStep(&domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: m.now(), Type: t, Model: m.name},
		Step:      step,
		Procedure: procedure,
		Err:       err,
	})
}
