package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/adapters/redis"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/model"
	"github.com/aretw0/stepwise/pkg/session"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Save(ctx context.Context, name string, snap *domain.ModelSnapshot) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, name, snap)
}

func (s SlowStore) Load(ctx context.Context, name string) (*domain.ModelSnapshot, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, name)
}

func TestManager_UpdateSerializesEdits(t *testing.T) {
	manager := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()

	_, err := manager.Create(ctx, "race")
	require.NoError(t, err)

	var wg sync.WaitGroup
	const writers = 10
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, "race", false, func(m *model.Model) error {
				return m.AppendStep(fmt.Sprintf("Step-%d", i), "STATIC_GENERAL")
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	m, err := manager.Load(ctx, "race")
	require.NoError(t, err)
	assert.Len(t, m.Steps(), writers+1, "no edit may be lost")
}

func TestManager_UpdateFailureSavesNothing(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Update(ctx, "m", true, func(m *model.Model) error {
		return m.AppendStep("Load", "STATIC_GENERAL")
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = manager.Update(ctx, "m", false, func(m *model.Model) error {
		if err := m.AppendStep("Extra", "STATIC_GENERAL"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	m, err := manager.Load(ctx, "m")
	require.NoError(t, err)
	assert.Len(t, m.Steps(), 2)
}

func TestManager_UpdateMissing(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	_, err := manager.Update(context.Background(), "nope", false, func(*model.Model) error { return nil })
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestManager_CreateCollision(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	var created, collided int
	var mu sync.Mutex
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Create(ctx, "once")
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, domain.ErrKeyCollision) {
				collided++
			} else if assert.NoError(t, err) {
				created++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, collided)
}

func TestManager_ModelOptionsApplyOnLoad(t *testing.T) {
	var events []domain.EntityEvent
	hooks := domain.LifecycleHooks{OnEntity: func(e *domain.EntityEvent) { events = append(events, *e) }}
	manager := session.NewManager(memory.NewStore(), session.WithModelOptions(model.WithLifecycleHooks(hooks)))
	ctx := context.Background()

	_, err := manager.Update(ctx, "m", true, func(m *model.Model) error {
		if err := m.AppendStep("Load", "STATIC_GENERAL"); err != nil {
			return err
		}
		_, err := m.Create("DisplacementBC", "Fix", "Load", domain.Values{"region": domain.Region{Set: "Base"}})
		return err
	})
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}

func TestManager_DistributedLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	manager := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, "test:")),
		session.WithLockTTL(time.Second),
	)
	ctx := context.Background()

	_, err := manager.Update(ctx, "shared", true, func(m *model.Model) error {
		assert.True(t, mr.Exists("test:lock:shared"), "lock held during the edit")
		return m.AppendStep("Load", "STATIC_GENERAL")
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:lock:shared"), "lock released after the edit")

	names, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, names)

	require.NoError(t, manager.Delete(ctx, "shared"))
	_, err = manager.Load(ctx, "shared")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}
