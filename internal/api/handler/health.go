package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sony/gobreaker"
)

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Pinger is satisfied by every record store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// circuitReporter is implemented by record stores behind a circuit breaker.
type circuitReporter interface {
	State() gobreaker.State
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// Checks that the configured record store is reachable and, when it sits
// behind a circuit breaker, that the circuit is not open.
type HealthDependenciesHandler struct {
	backend string
	store   Pinger
	timeout time.Duration
}

func NewHealthDependenciesHandler(backend string, store Pinger) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{backend: backend, store: store, timeout: 3 * time.Second}
}

type dependencyStatus struct {
	Status  string `json:"status"`
	Circuit string `json:"circuit,omitempty"`
	Error   string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	status, httpStatus := "ok", http.StatusOK

	dep := dependencyStatus{Status: "ok"}
	if cr, ok := h.store.(circuitReporter); ok {
		state := cr.State()
		dep.Circuit = state.String()
		// Saves fail fast while the circuit is open, whatever Ping says.
		if state == gobreaker.StateOpen {
			dep.Status = "unhealthy"
			dep.Error = "circuit open"
		}
	}
	if err := h.store.Ping(ctx); err != nil {
		dep.Status = "unhealthy"
		dep.Error = err.Error()
	}
	if dep.Status != "ok" {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}
	deps[h.backend] = dep

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
