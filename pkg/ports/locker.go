package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotAcquired is returned when a lock could not be taken before the
// context ended.
var ErrLockNotAcquired = errors.New("lock not acquired")

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It allows the session manager to serialize edits of one model across replicas.
type DistributedLocker interface {
	// Lock attempts to acquire a distributed lock for the given key (a model name).
	// It blocks until the lock is acquired or the context is canceled.
	// The lock expires after ttl if never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
