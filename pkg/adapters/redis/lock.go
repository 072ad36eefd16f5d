package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// unlockScript deletes the lock only while it still holds our token.
var unlockScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// Locker implements ports.DistributedLocker using Redis.
type Locker struct {
	client *backend.Client
	prefix string
	retry  time.Duration
}

// LockerOption configures a Locker.
type LockerOption func(*Locker)

// WithRetryInterval sets how often a contended lock is retried.
func WithRetryInterval(d time.Duration) LockerOption {
	return func(l *Locker) {
		l.retry = d
	}
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string, opts ...LockerOption) *Locker {
	l := &Locker{
		client: client,
		prefix: prefix,
		retry:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX.
// The lock value is a random token, so only the holder can release it.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := uuid.NewString()

	unlock := func(ctx context.Context) error {
		return unlockScript.Run(ctx, l.client, []string{lockKey}, token).Err()
	}

	ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error acquiring lock: %w", err)
	}
	if ok {
		return unlock, nil
	}

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ports.ErrLockNotAcquired, key, ctx.Err())
		case <-ticker.C:
			ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
			if err != nil {
				return nil, fmt.Errorf("redis error acquiring lock: %w", err)
			}
			if ok {
				return unlock, nil
			}
		}
	}
}
