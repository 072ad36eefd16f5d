package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/script"
)

// ScriptSource defines where model scripts come from.
// This allows the storage layer (Loam, Memory) to be decoupled from the CLI and servers.
type ScriptSource interface {
	// Fetch returns the named script as written, imports unresolved.
	Fetch(ctx context.Context, name string) (*script.Script, error)

	// Script returns the named script with its imports merged in.
	Script(ctx context.Context, name string) (*script.Script, error)

	// Scripts lists the script names available in the source.
	Scripts(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for re-applying scripts while editing them.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed script.
	Watch(ctx context.Context) (<-chan string, error)
}
