package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Status strings used in probe response bodies.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// upstreamCheckTimeout bounds the facade reachability probe so a slow
// upstream cannot stall the readiness endpoint.
const upstreamCheckTimeout = 2 * time.Second

// HealthChecker serves the liveness and readiness endpoints of the MCP HTTP
// transport, in the shape Kubernetes probes expect.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext // consulted for shutdown state
	// upstream, when set, verifies that the facade API is reachable
	upstream  func(ctx context.Context) error
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server. The serve loop flips this
// off when shutdown starts, so load balancers stop routing new traffic here
// while connections drain.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the current readiness state.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// SetUpstreamCheck installs a probe that readiness runs against the facade
// API. A nil function disables the check.
func (h *HealthChecker) SetUpstreamCheck(check func(ctx context.Context) error) {
	h.upstream = check
}

func (h *HealthChecker) isServerShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// runChecks evaluates every readiness condition and returns one map entry
// per check for the response body.
func (h *HealthChecker) runChecks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string)
	allOk := true

	if h.ready.Load() {
		checks["ready"] = healthStatusOK
	} else {
		checks["ready"] = healthStatusNotReady
		allOk = false
	}

	if h.isServerShuttingDown() {
		checks["shutdown"] = healthStatusShuttingDown
		allOk = false
	} else {
		checks["shutdown"] = healthStatusOK
	}

	// Check that the facade API answers, when a probe is installed
	if h.upstream != nil {
		probeCtx, cancel := context.WithTimeout(ctx, upstreamCheckTimeout)
		defer cancel()
		if err := h.upstream(probeCtx); err != nil {
			checks["upstream"] = err.Error()
			allOk = false
		} else {
			checks["upstream"] = healthStatusOK
		}
	}

	return checks, allOk
}

// HealthResponse is the body served by the probe endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse adds process uptime to the check results, for
// humans debugging a deployment rather than for probes.
type DetailedHealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LivenessHandler answers /healthz. Liveness decides whether the process
// gets restarted, so this stays a bare "the process answers" check with no
// dependency probes; a broken facade must not get this pod killed.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		_ = json.NewEncoder(w).Encode(HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler answers /readyz: whether this server should receive
// traffic, including whether the facade API the tools forward to is
// reachable.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks, ok := h.runChecks(r.Context())

		response := HealthResponse{Checks: checks}
		if ok {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// DetailedHealthHandler answers /healthz/detailed with the readiness checks
// plus process uptime.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks, ok := h.runChecks(r.Context())

		response := DetailedHealthResponse{
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
			Checks: checks,
		}
		if ok {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints mounts the probe routes on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
