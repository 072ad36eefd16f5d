package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
)

// ModelStore defines the interface for persisting model snapshots.
// Snapshots carry the call history, so a loaded model is rebuilt by replay.
type ModelStore interface {
	// Save persists the snapshot under the given model name.
	Save(ctx context.Context, name string, snap *domain.ModelSnapshot) error

	// Load retrieves the snapshot for a given model name.
	// Returns domain.ErrModelNotFound if the model does not exist.
	Load(ctx context.Context, name string) (*domain.ModelSnapshot, error)

	// Delete removes the snapshot. Deleting a missing model is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored model names.
	List(ctx context.Context) ([]string, error)
}
