package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed holder can block a model.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates model access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.ModelStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active locks by model name

	locker    ports.DistributedLocker // optional
	lockTTL   time.Duration
	modelOpts []model.Option
	logger    *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks. A non-positive ttl
// keeps DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithModelOptions sets the options every loaded or created model gets,
// e.g. lifecycle hooks or a custom kind registry.
func WithModelOptions(opts ...model.Option) Option {
	return func(m *Manager) {
		m.modelOpts = append(m.modelOpts, opts...)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager over the given store.
func NewManager(store ports.ModelStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(name) after unlocking.
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		entry = &lockEntry{}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// Load replays the stored snapshot into a live model.
// Returns domain.ErrModelNotFound if the model does not exist.
func (m *Manager) Load(ctx context.Context, name string) (*model.Model, error) {
	var out *model.Model
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		var err error
		out, err = m.load(ctx, name)
		return err
	})
	return out, err
}

// Snapshot returns the stored snapshot without replaying it.
func (m *Manager) Snapshot(ctx context.Context, name string) (*domain.ModelSnapshot, error) {
	return m.store.Load(ctx, name)
}

// Create persists a new empty model. An existing model is a collision.
func (m *Manager) Create(ctx context.Context, name string) (*model.Model, error) {
	var out *model.Model
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, name)
		if err == nil {
			return &domain.KeyCollisionError{Scope: "models", Key: name}
		}
		if !errors.Is(err, domain.ErrModelNotFound) {
			return fmt.Errorf("failed to check model existence: %w", err)
		}
		out = model.New(name, m.modelOpts...)
		return m.save(ctx, out)
	})
	return out, err
}

// Update loads name, runs fn on it and saves the result. When create is
// true a missing model starts empty. If fn fails nothing is saved, so the
// stored model never holds a partial edit.
func (m *Manager) Update(ctx context.Context, name string, create bool, fn func(*model.Model) error) (*model.Model, error) {
	var out *model.Model
	err := m.WithLock(ctx, name, func(ctx context.Context) error {
		mdl, err := m.load(ctx, name)
		switch {
		case errors.Is(err, domain.ErrModelNotFound) && create:
			mdl = model.New(name, m.modelOpts...)
		case err != nil:
			return err
		}
		if err := fn(mdl); err != nil {
			return err
		}
		out = mdl
		return m.save(ctx, mdl)
	})
	return out, err
}

// Save persists a live model under its own name.
func (m *Manager) Save(ctx context.Context, mdl *model.Model) error {
	return m.WithLock(ctx, mdl.Name(), func(ctx context.Context) error {
		return m.save(ctx, mdl)
	})
}

// Delete removes the model from the store.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(ctx context.Context) error {
		return m.store.Delete(ctx, name)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying model store.
func (m *Manager) Store() ports.ModelStore {
	return m.store
}

// WithLock executes a function while holding the lock for the model.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context) error) error {
	entry := m.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(name)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, name, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The edit's context may be done; release on a fresh one.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"model", name,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) load(ctx context.Context, name string) (*model.Model, error) {
	snap, err := m.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	mdl, err := model.Restore(snap, m.modelOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore model %s: %w", name, err)
	}
	return mdl, nil
}

func (m *Manager) save(ctx context.Context, mdl *model.Model) error {
	if err := m.store.Save(ctx, mdl.Name(), mdl.Snapshot()); err != nil {
		return fmt.Errorf("failed to save model %s: %w", mdl.Name(), err)
	}
	m.logger.Debug("model saved", "model", mdl.Name())
	return nil
}
