// Package handlers contains the HTTP handlers for the marketplace API.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthChecker is implemented by components that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Health aggregates component health checks behind the standard probe
// endpoints.
type Health struct {
	version  string
	checkers map[string]HealthChecker
}

// NewHealth creates the health endpoints handler.
func NewHealth(version string) *Health {
	return &Health{
		version:  version,
		checkers: make(map[string]HealthChecker),
	}
}

// RegisterChecker adds a named component to the readiness and aggregate
// checks. Not safe for use after the server starts.
func (h *Health) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

type healthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health reports aggregate service health.
func (h *Health) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, healthResponse{
		Status:    status,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

// Liveness reports process liveness only.
func (h *Health) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "alive",
		Version:   h.version,
		Timestamp: time.Now().UTC(),
	})
}

// Readiness reports whether the service can take traffic.
func (h *Health) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	status := "ready"
	code := http.StatusOK
	if !healthy {
		status = "not ready"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, healthResponse{
		Status:    status,
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

func (h *Health) runChecks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string, len(h.checkers))
	healthy := true
	for name, checker := range h.checkers {
		if err := checker.CheckHealth(ctx); err != nil {
			checks[name] = "unhealthy"
			healthy = false
		} else {
			checks[name] = "healthy"
		}
	}
	return checks, healthy
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
