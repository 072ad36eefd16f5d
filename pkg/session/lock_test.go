package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/model"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 1000

	for i := range count {
		name := fmt.Sprintf("model-%d", i)
		_ = mgr.Save(ctx, model.New(name))
		_ = mgr.Delete(ctx, name)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
