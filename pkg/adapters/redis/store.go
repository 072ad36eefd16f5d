// Package redis persists model snapshots and serializes model edits through Redis.
package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces model keys and the model index.
const DefaultPrefix = "stepwise:model:"

// noExpiry is the index score of models saved without a TTL (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.ModelStore using Redis.
// Snapshots are JSON strings; a sorted set indexes model names by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored models.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored models.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client, e.g. to build a Locker on it.
func (s *Store) Client() *backend.Client { return s.client }

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the snapshot and indexes its name in one pipeline.
func (s *Store) Save(ctx context.Context, name string, snap *domain.ModelSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = noExpiry
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: name,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the snapshot from Redis.
func (s *Store) Load(ctx context.Context, name string) (*domain.ModelSnapshot, error) {
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(val))
	dec.UseNumber()
	var snap domain.ModelSnapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model %s: %w", name, err)
	}
	return &snap, nil
}

// Delete removes the model and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the live model names. Expired entries are pruned from the
// index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired models: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
