// Package mcp exposes stored models as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/dto"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/kinds"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/aretw0/stepwise/pkg/script"
	"github.com/aretw0/stepwise/pkg/session"
)

// ModelList is the result of list_models.
type ModelList struct {
	Models []string `json:"models" jsonschema_description:"Stored model names"`
}

// KindList is the result of list_kinds.
type KindList struct {
	Kinds []dto.KindView `json:"kinds" jsonschema_description:"Registered entity kinds"`
}

// StepStatesArgs are the arguments of get_step_states.
type StepStatesArgs struct {
	Model      string `json:"model"`
	Repository string `json:"repository"`
	Key        string `json:"key"`
}

// ApplyScriptArgs are the arguments of apply_script.
type ApplyScriptArgs struct {
	Model  string `json:"model"`
	Script string `json:"script"`
}

// Server wraps a session manager and exposes it as an MCP server.
type Server struct {
	manager   *session.Manager
	registry  *registry.Registry
	library   script.Fetcher
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLibrary resolves script imports through fetch.
func WithLibrary(fetch script.Fetcher) Option {
	return func(s *Server) {
		s.library = fetch
	}
}

// WithRegistry sets the kind registry listed by list_kinds.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Server) {
		s.registry = r
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager:   manager,
		registry:  kinds.Default(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("stepwise-mcp", strings.TrimSpace(stepwise.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on addr using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the names of stored models."),
		mcp.WithOutputSchema[ModelList](),
	), mcp.NewStructuredToolHandler(s.handleListModels))

	s.mcpServer.AddTool(mcp.NewTool("list_kinds",
		mcp.WithDescription("List the entity kinds with their fields and applicable procedures."),
		mcp.WithOutputSchema[KindList](),
	), mcp.NewStructuredToolHandler(s.handleListKinds))

	s.mcpServer.AddTool(mcp.NewTool("get_step_states",
		mcp.WithDescription("Get the definition, call history and per-step states of one entity."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithString("repository", mcp.Required(),
			mcp.Enum("boundaryConditions", "loads", "interactions", "predefinedFields"),
			mcp.Description("Entity repository")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Entity key")),
		mcp.WithOutputSchema[dto.EntityDetail](),
	), mcp.NewStructuredToolHandler(s.handleStepStates))

	s.mcpServer.AddTool(mcp.NewTool("apply_script",
		mcp.WithDescription("Apply a YAML or JSON model script, creating the model when missing. A failing operation leaves the model unchanged."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithString("script", mcp.Required(), mcp.Description("Script document (YAML or JSON)")),
		mcp.WithOutputSchema[dto.ModelView](),
	), mcp.NewStructuredToolHandler(s.handleApplyScript))
}

func (s *Server) handleListModels(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (ModelList, error) {
	names, err := s.manager.List(ctx)
	if err != nil {
		return ModelList{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return ModelList{Models: names}, nil
}

func (s *Server) handleListKinds(_ context.Context, _ mcp.CallToolRequest, _ map[string]any) (KindList, error) {
	return KindList{Kinds: dto.NewKindViews(s.registry.Kinds())}, nil
}

func (s *Server) handleStepStates(ctx context.Context, _ mcp.CallToolRequest, args StepStatesArgs) (dto.EntityDetail, error) {
	m, err := s.manager.Load(ctx, args.Model)
	if err != nil {
		return dto.EntityDetail{}, err
	}
	e, err := m.Entity(args.Repository, args.Key)
	if err != nil {
		return dto.EntityDetail{}, err
	}
	return dto.NewEntityDetail(e, m.Steps()), nil
}

func (s *Server) handleApplyScript(ctx context.Context, _ mcp.CallToolRequest, args ApplyScriptArgs) (dto.ModelView, error) {
	sc, err := script.Parse([]byte(args.Script))
	if err != nil {
		return dto.ModelView{}, err
	}
	sc, err = script.ResolveScript(ctx, sc, s.library)
	if err != nil {
		return dto.ModelView{}, err
	}
	m, err := s.manager.ApplyScript(ctx, args.Model, sc)
	if err != nil {
		s.logger.Warn("MCP apply_script rejected", "model", args.Model, "err", err)
		return dto.ModelView{}, err
	}
	s.logger.Info("MCP script applied", "model", args.Model, "operations", len(sc.Operations))
	return dto.NewModelView(m), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("stepwise://kinds", "Entity kind catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(dto.NewKindViews(s.registry.Kinds()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode kinds: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "stepwise://kinds",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
