// Package http exposes stored models over a chi REST API described by an
// embedded OpenAPI document.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/internal/dto"
	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/kinds"
	"github.com/aretw0/stepwise/pkg/registry"
	"github.com/aretw0/stepwise/pkg/script"
	"github.com/aretw0/stepwise/pkg/session"
)

// MaxScriptBytes bounds the body of a script upload.
const MaxScriptBytes = 1 << 20

// Server serves the model API.
type Server struct {
	manager  *session.Manager
	registry *registry.Registry
	library  script.Fetcher
	gatherer prometheus.Gatherer
	streams  *StreamManager
	spec     *openapi3.T
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
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

// WithGatherer serves g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithRegistry sets the kind registry listed at /kinds.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Server) {
		s.registry = r
	}
}

// NewServer validates the embedded OpenAPI document and builds a Server.
func NewServer(ctx context.Context, manager *session.Manager, opts ...Option) (*Server, error) {
	spec, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	s := &Server{
		manager: manager,
		spec:    spec,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	return s, nil
}

// Streams returns the SSE fan-out of the server.
func (s *Server) Streams() *StreamManager { return s.streams }

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/kinds", s.ListKinds)
	r.Get("/models", s.ListModels)
	r.Route("/models/{model}", func(r chi.Router) {
		r.Get("/", s.GetModel)
		r.Delete("/", s.DeleteModel)
		r.Post("/script", s.ApplyScript)
		r.Get("/events", s.SubscribeEvents)
		r.Get("/{repository}/{key}/states", s.GetStepStates)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Stepwise API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":         "stepwise-http",
		"version":     strings.TrimSpace(stepwise.Version),
		"api_version": apiVersion,
	})
}

// ListKinds handles GET /kinds.
func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	reg := s.registry
	if reg == nil {
		reg = kinds.Default()
	}
	writeJSON(w, s.logger, http.StatusOK, dto.NewKindViews(reg.Kinds()))
}

// ListModels handles GET /models.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	names, err := s.manager.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, names)
}

// GetModel handles GET /models/{model}.
func (s *Server) GetModel(w http.ResponseWriter, r *http.Request) {
	name, ok := s.modelParam(w, r)
	if !ok {
		return
	}
	m, err := s.manager.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, dto.NewModelView(m))
}

// DeleteModel handles DELETE /models/{model}.
func (s *Server) DeleteModel(w http.ResponseWriter, r *http.Request) {
	name, ok := s.modelParam(w, r)
	if !ok {
		return
	}
	if err := s.manager.Delete(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(name, Event{Type: EventDeleted, Model: name})
	w.WriteHeader(http.StatusNoContent)
}

// ApplyScript handles POST /models/{model}/script.
func (s *Server) ApplyScript(w http.ResponseWriter, r *http.Request) {
	name, ok := s.modelParam(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxScriptBytes+1))
	if err != nil {
		s.writeStatusError(w, r, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}
	if len(body) > MaxScriptBytes {
		s.writeStatusError(w, r, http.StatusRequestEntityTooLarge, errors.New("script too large"))
		return
	}
	sc, err := script.Parse(body)
	if err != nil {
		s.writeStatusError(w, r, http.StatusBadRequest, err)
		return
	}
	sc, err = script.ResolveScript(r.Context(), sc, s.library)
	if err != nil {
		s.writeStatusError(w, r, http.StatusBadRequest, err)
		return
	}

	m, err := s.manager.ApplyScript(r.Context(), name, sc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("script applied", "model", name, "operations", len(sc.Operations))
	s.broadcast(name, Event{Type: EventApplied, Model: name, Operations: len(sc.Operations)})
	writeJSON(w, s.logger, http.StatusOK, dto.NewModelView(m))
}

// GetStepStates handles GET /models/{model}/{repository}/{key}/states.
// The optional step query parameter narrows the states to one step.
func (s *Server) GetStepStates(w http.ResponseWriter, r *http.Request) {
	name, ok := s.modelParam(w, r)
	if !ok {
		return
	}
	var repo, key string
	if err := bindPath("repository", chi.URLParam(r, "repository"), &repo); err != nil {
		s.writeStatusError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := bindPath("key", chi.URLParam(r, "key"), &key); err != nil {
		s.writeStatusError(w, r, http.StatusBadRequest, err)
		return
	}
	var step *string
	if err := runtime.BindQueryParameter("form", true, false, "step", r.URL.Query(), &step); err != nil {
		s.writeStatusError(w, r, http.StatusBadRequest, fmt.Errorf("invalid format for parameter step: %w", err))
		return
	}

	m, err := s.manager.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := m.Entity(repo, key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail := dto.NewEntityDetail(e, m.Steps())
	if step != nil {
		st, ok := e.StateAt(*step)
		if !ok && m.Index(*step) < 0 {
			s.writeStatusError(w, r, http.StatusNotFound, fmt.Errorf("step not found: %s", *step))
			return
		}
		detail.States = detail.States[:0]
		if ok {
			detail.States = append(detail.States, st)
		}
	}
	writeJSON(w, s.logger, http.StatusOK, detail)
}

// SubscribeEvents handles GET /models/{model}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	name, ok := s.modelParam(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeStatusError(w, r, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	ch, cancel := s.streams.Subscribe(name)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Debug("SSE client subscribed", "model", name)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "model", name)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// Event types sent to SSE subscribers.
const (
	EventApplied = "applied"
	EventDeleted = "deleted"
)

// Event is the payload of a model SSE message.
type Event struct {
	Type       string `json:"type"`
	Model      string `json:"model"`
	Operations int    `json:"operations,omitempty"`
}

func (s *Server) broadcast(model string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("event encode failed", "err", err)
		return
	}
	s.streams.Broadcast(model, string(data))
}

func (s *Server) modelParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	var name string
	if err := bindPath("model", chi.URLParam(r, "model"), &name); err != nil {
		s.writeStatusError(w, r, http.StatusBadRequest, err)
		return "", false
	}
	return name, true
}

func bindPath(param, value string, dest *string) error {
	err := runtime.BindStyledParameterWithOptions("simple", param, value, dest, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", param, err)
	}
	return nil
}
