// Package cli holds the wiring shared by the stepwise commands.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/adapters/file"
	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/adapters/redis"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/aretw0/stepwise/pkg/persistence/middleware"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/session"
)

// Env bundles the components commands build from configuration.
type Env struct {
	Config   config.Config
	Logger   *slog.Logger
	Metrics  *prometheus.Registry
	Manager  *session.Manager
	modelOps []model.Option
	closers  []func() error
}

// Setup builds the logger, store, metrics and session manager for cfg.
func Setup(cfg config.Config, logger *slog.Logger) (*Env, error) {
	if logger == nil {
		lvl, err := cfg.Level()
		if err != nil {
			return nil, err
		}
		logger = logging.New(lvl)
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	store, locker, closer, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Config:  cfg,
		Logger:  logger,
		Metrics: reg,
		modelOps: []model.Option{
			model.WithLogger(logger),
			model.WithLifecycleHooks(metrics.Hooks().Merge(observability.LogHooks(logger))),
		},
	}
	if closer != nil {
		env.closers = append(env.closers, closer)
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.LockTTL),
		session.WithModelOptions(env.modelOps...),
	}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	env.Manager = session.NewManager(store, opts...)
	logger.Debug("environment ready", "store", cfg.Store, "compact", cfg.Compact, "encrypted", cfg.EncryptionKey != "")
	return env, nil
}

// ModelOptions returns the options live models are built with.
func (e *Env) ModelOptions() []model.Option { return e.modelOps }

// Close releases the store connections.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// OpenStore builds the configured store and its middleware chain. The locker
// is nil unless the backend is shared between processes.
func OpenStore(cfg config.Config) (ports.ModelStore, ports.DistributedLocker, func() error, error) {
	var (
		base   ports.ModelStore
		locker ports.DistributedLocker
		closer func() error
	)
	switch cfg.Store {
	case config.StoreMemory:
		base = memory.NewStore()
	case config.StoreFile:
		base = file.New(cfg.Dir)
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		base, closer = rs, rs.Close
		locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix)
	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	var mws []middleware.Middleware
	if cfg.Compact {
		mws = append(mws, middleware.NewCompactMiddleware())
	}
	active, fallback, err := cfg.Keys()
	if err != nil {
		return nil, nil, nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			return nil, nil, nil, err
		}
		mws = append(mws, enc)
	}
	return middleware.Chain(base, mws...), locker, closer, nil
}
