package app

import (
	"context"
	"net/http"
	"time"

	httputil "escapedia/pkg/http"
	"escapedia/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type HealthResponse struct {
	Status string           `json:"status"`
	API    string           `json:"api,omitempty"`
	Events map[string]int64 `json:"events,omitempty"`
}

// Pinger checks that the remote API answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	api    Pinger
	events func() map[string]int64
	log    *logger.Logger
}

// NewHealthHandler reports liveness and API readiness. events may be nil when
// activity publishing is off.
func NewHealthHandler(api Pinger, events func() map[string]int64, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		api:    api,
		events: events,
		log:    log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ready", API: "ok"}
	if h.events != nil {
		resp.Events = h.events()
	}

	status := http.StatusOK
	if err := h.api.Ping(ctx); err != nil {
		h.log.Error("API health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		status = http.StatusServiceUnavailable
		resp.Status, resp.API = "unavailable", "error"
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
