// Package server provides the HTTP facade for the calendar agent along with
// the shared process context, health checking, and the metrics listener.
//
// # Key Components
//
// FacadeServer exposes the agent as a small JSON API: listing upcoming
// events, scheduling, updating, and deleting them. Agent errors are mapped
// onto HTTP status codes (validation 400, missing event 404, provider
// failures 502, broken credentials 500) and every response carries a
// "message" field.
//
// ServerContext is the state shared by the MCP tool handlers: the facade API
// client they forward to, the instrumentation recorders, and the shutdown
// flag the health endpoints report.
//
// HealthChecker serves /healthz, /readyz, and /healthz/detailed for
// Kubernetes probes. Readiness can include a facade reachability check so an
// MCP server whose upstream is down reports itself not ready.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated from
// application traffic.
package server
