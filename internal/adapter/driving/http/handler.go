// Package httphandler serves the read-only status API and the manual cycle trigger.
package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
	"github.com/ericfisherdev/cardclaim/internal/domain/port/driven"
)

// Limits for the activations listing.
const (
	defaultActivationLimit = 50
	maxActivationLimit     = 500
)

// CycleRunner is the subset of the scheduler the API needs.
type CycleRunner interface {
	Trigger(ctx context.Context) (model.CycleStatus, error)
	LastCycle() (model.CycleStatus, bool)
	Interval() time.Duration
}

// Handler is the HTTP driving adapter that serves the status API.
type Handler struct {
	activations driven.ActivationLog
	scheduler   CycleRunner
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(activations driven.ActivationLog, scheduler CycleRunner, logger *slog.Logger) *Handler {
	return &Handler{
		activations: activations,
		scheduler:   scheduler,
		logger:      logger,
	}
}

// NewRouter creates a chi router with all routes registered and wrapped with
// logging and recovery middleware.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(func(next http.Handler) http.Handler { return loggingMiddleware(logger, next) })
	// Recovery innermost so panics are caught before logging.
	r.Use(func(next http.Handler) http.Handler { return recoveryMiddleware(logger, next) })

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/status", h.Status)
		r.Get("/activations", h.ListActivations)
		r.Post("/cycles", h.TriggerCycle)
	})

	return r
}

// Health returns a simple liveness response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// Status returns the outcome of the most recent cycle.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{Interval: h.scheduler.Interval().String()}
	if last, ok := h.scheduler.LastCycle(); ok {
		cycle := toCycleResponse(last)
		resp.Cycle = &cycle
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListActivations returns recent activation attempts, newest first.
func (h *Handler) ListActivations(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivationLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxActivationLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	records, err := h.activations.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list activations", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]ActivationResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toActivationResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// TriggerCycle runs a cycle right away and reports its outcome.
func (h *Handler) TriggerCycle(w http.ResponseWriter, r *http.Request) {
	status, err := h.scheduler.Trigger(r.Context())
	if err != nil && status.CycleID == "" {
		h.logger.Error("failed to trigger cycle", "error", err)
		writeError(w, http.StatusServiceUnavailable, "cycle could not be started")
		return
	}

	resp := toCycleResponse(status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	writeJSON(w, http.StatusAccepted, resp)
}
