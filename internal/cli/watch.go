package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/aretw0/stepwise/pkg/ports"
)

// reloadDelay lets the file system settle after a change event.
const reloadDelay = 100 * time.Millisecond

// RunWatch applies a library script, then re-applies it whenever a document
// in the library changes, until ctx is done. Failures are reported and the
// watcher keeps waiting for the next change.
func RunWatch(ctx context.Context, env *Env, opts ApplyOptions, w io.Writer) error {
	if opts.Library == "" {
		return errors.New("--watch requires --library")
	}
	src, err := OpenLibrary(opts.Library)
	if err != nil {
		return err
	}
	watchable, ok := src.(ports.Watchable)
	if !ok {
		return fmt.Errorf("library %s cannot be watched", opts.Library)
	}
	events, err := watchable.Watch(ctx)
	if err != nil {
		return err
	}

	tui.PrintBanner(w)
	env.Logger.Info("starting watcher", "library", opts.Library, "script", opts.Script)
	printSystemMessage(w, "Watching '%s' in '%s'.", opts.Script, opts.Library)

	for {
		if _, err := Apply(ctx, env, opts, w); err != nil {
			env.Logger.Error("apply failed", "err", err)
			printSystemMessage(w, "Apply failed: %v", err)
		}
		printSystemMessage(w, "Waiting for changes...")

		select {
		case <-ctx.Done():
			env.Logger.Info("stopping watcher")
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			env.Logger.Info("change detected, re-applying", "event", event)
			printSystemMessage(w, "Change detected in '%s'.", event)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(reloadDelay):
			}
		}
	}
}
