package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/ports"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps a domain or infrastructure error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRange), errors.Is(err, domain.ErrValue):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrModelNotFound), errors.Is(err, domain.ErrKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrKeyCollision):
		return http.StatusConflict
	case errors.Is(err, ports.ErrLockNotAcquired):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeStatusError(w, r, StatusFor(err), err)
}

func (s *Server) writeStatusError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, s.logger, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
