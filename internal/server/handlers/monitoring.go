package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
)

// ReadinessCheck is one named dependency probed by the readiness endpoint.
type ReadinessCheck struct {
	Name  string
	Check func(context.Context) error
}

// MonitoringHandlers contains health and readiness handlers.
type MonitoringHandlers struct {
	version string
	start   time.Time
	checks  []ReadinessCheck
	now     func() time.Time
}

// NewMonitoringHandlers creates monitoring handlers reporting version.
func NewMonitoringHandlers(version string, checks ...ReadinessCheck) *MonitoringHandlers {
	return &MonitoringHandlers{
		version: version,
		start:   time.Now(),
		checks:  checks,
		now:     time.Now,
	}
}

// HandleHealthCheck reports liveness; it succeeds while the process serves requests.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	resp := responses.HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Version:   h.version,
		Uptime:    now.Sub(h.start).Seconds(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		slog.Error("failed to encode health response", logfields.Error(err))
	}
}

// HandleReadiness runs every readiness check and answers 503 if one fails.
func (h *MonitoringHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	resp := responses.ReadyResponse{
		Status:    "ready",
		Checks:    make(map[string]string, len(h.checks)),
		Timestamp: h.now().UTC(),
	}
	status := http.StatusOK
	for _, c := range h.checks {
		if err := c.Check(r.Context()); err != nil {
			resp.Checks[c.Name] = err.Error()
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name] = "ok"
	}
	if err := writeJSONPretty(w, r, status, resp); err != nil {
		slog.Error("failed to encode readiness response", logfields.Error(err))
	}
}
