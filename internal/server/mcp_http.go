package server

import (
	"context"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/instrumentation"
)

// DefaultMCPEndpointPath is where the MCP handler is mounted when no path is
// configured.
const DefaultMCPEndpointPath = "/calendar"

// MCPHTTPServer hosts an MCP server over the streamable HTTP transport,
// alongside the health endpoints used by Kubernetes probes.
type MCPHTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	httpServer    *http.Server
	healthChecker *HealthChecker
	metrics       *instrumentation.Metrics
	endpointPath  string
}

// NewMCPHTTPServer creates an HTTP host for the MCP server. An empty
// endpointPath falls back to DefaultMCPEndpointPath.
func NewMCPHTTPServer(mcpServer *mcpserver.MCPServer, endpointPath string) *MCPHTTPServer {
	if endpointPath == "" {
		endpointPath = DefaultMCPEndpointPath
	}
	return &MCPHTTPServer{
		mcpServer:    mcpServer,
		endpointPath: endpointPath,
	}
}

// SetHealthChecker installs the health checker whose endpoints are served
// next to the MCP endpoint.
func (s *MCPHTTPServer) SetHealthChecker(hc *HealthChecker) {
	s.healthChecker = hc
}

// SetMetrics enables HTTP request metrics for the MCP endpoint.
func (s *MCPHTTPServer) SetMetrics(metrics *instrumentation.Metrics) {
	s.metrics = metrics
}

// EndpointPath returns the path the MCP handler is mounted on.
func (s *MCPHTTPServer) EndpointPath() string {
	return s.endpointPath
}

// Start starts the HTTP server on addr and blocks until it stops.
func (s *MCPHTTPServer) Start(addr string) error {
	streamableServer := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(s.endpointPath),
	)

	mux := http.NewServeMux()
	mux.Handle(s.endpointPath, s.instrumentationMiddleware(streamableServer))

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *MCPHTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// responseWriter wraps http.ResponseWriter to capture the status code for
// request metrics.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush passes through to the underlying writer so the streamable transport
// can flush in-progress responses.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// instrumentationMiddleware records request count and duration when metrics
// are configured.
func (s *MCPHTTPServer) instrumentationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}
