package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/stepwise/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/stepwise/pkg/adapters/mcp"
	"github.com/aretw0/stepwise/pkg/script"
)

const shutdownTimeout = 5 * time.Second

func libraryFetcher(library string) (script.Fetcher, error) {
	if library == "" {
		return nil, nil
	}
	src, err := OpenLibrary(library)
	if err != nil {
		return nil, err
	}
	return src.Fetch, nil
}

// NewHTTPHandler builds the REST API over env.
func NewHTTPHandler(ctx context.Context, env *Env, library string) (http.Handler, error) {
	fetch, err := libraryFetcher(library)
	if err != nil {
		return nil, err
	}
	srv, err := httpAdapter.NewServer(ctx, env.Manager,
		httpAdapter.WithLogger(env.Logger),
		httpAdapter.WithGatherer(env.Metrics),
		httpAdapter.WithLibrary(fetch),
	)
	if err != nil {
		return nil, err
	}
	return srv.Handler(), nil
}

// Serve runs the REST API on addr until ctx is done, then shuts down
// gracefully.
func Serve(ctx context.Context, env *Env, addr, library string) error {
	handler, err := NewHTTPHandler(ctx, env, library)
	if err != nil {
		return err
	}
	srv := &http.Server{Addr: addr, Handler: handler}

	serverErrors := make(chan error, 1)
	go func() {
		env.Logger.Info("HTTP server listening", "address", addr, "store", env.Config.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		env.Logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			env.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	}
}

// ServeMCP runs the MCP server over stdio, or over SSE when addr is set.
func ServeMCP(ctx context.Context, env *Env, addr, library string) error {
	fetch, err := libraryFetcher(library)
	if err != nil {
		return err
	}
	srv := mcpAdapter.NewServer(env.Manager,
		mcpAdapter.WithLogger(env.Logger),
		mcpAdapter.WithLibrary(fetch),
	)
	if addr != "" {
		return srv.ServeSSE(ctx, addr)
	}
	return srv.ServeStdio()
}
