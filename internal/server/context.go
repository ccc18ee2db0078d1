package server

import (
	"sync"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/instrumentation"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/service"
)

// ServerContext holds the state shared by the MCP tool handlers: the facade
// client, the instrumentation recorders, and the shutdown flag the health
// endpoints report.
type ServerContext struct {
	serviceClient *service.Client
	metrics       *instrumentation.Metrics
	auditLogger   *instrumentation.AuditLogger
	timezone      string
	mu            sync.RWMutex
	shutdown      bool
}

// NewServerContext creates the shared state for a server process. The
// timezone is the label applied to event times, surfaced through the service
// status resource.
func NewServerContext(timezone string) *ServerContext {
	return &ServerContext{timezone: timezone}
}

// TimeZone returns the timezone label events are created with.
func (sc *ServerContext) TimeZone() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.timezone
}

// ServiceClient returns the facade API client used by the MCP tools.
func (sc *ServerContext) ServiceClient() *service.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.serviceClient
}

// SetServiceClient sets the facade API client used by the MCP tools.
func (sc *ServerContext) SetServiceClient(client *service.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.serviceClient = client
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder shared by the tool handlers.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger shared by the tool handlers.
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown marks the server as shutting down, which flips the readiness
// endpoints to not-ready. Safe to call more than once.
func (sc *ServerContext) Shutdown() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.shutdown = true
}
