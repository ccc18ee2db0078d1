// Package instrumentation wires OpenTelemetry metrics, tracing, and audit
// logging for the calendar agent and its MCP server.
//
// NewProvider builds the whole stack from a Config (usually DefaultConfig,
// which reads the environment) and registers the global meter and tracer
// providers. Both the serve and api commands construct a provider at
// startup and expose the prometheus registry through server.MetricsServer.
//
// # Metrics
//
// Four instrument groups cover the server's surfaces:
//
//   - http_requests_total and http_request_duration_seconds: facade
//     traffic by method, path, and status
//   - google_api_operations_total and
//     google_api_operation_duration_seconds: upstream calendar calls by
//     operation and status
//   - notifications_sent_total: attendee emails by kind and status
//   - mcp_tool_invocations_total and mcp_tool_duration_seconds: tool
//     calls by tool name and status
//
// # Tracing
//
// StartToolSpan opens a server span per MCP tool call, and
// StartGoogleAPISpan a client span per forwarded calendar operation, so a
// tool call and the agent requests it triggers share one trace. With
// TRACING_EXPORTER=none spans are never sampled but still carry valid
// ids, which the audit records reuse.
//
// # Audit logging
//
// AuditLogger emits one structured record per tool invocation through
// slog. Attendee addresses enter the records only with
// AUDIT_LOGGING_INCLUDE_PII=true; otherwise they are reduced to counts
// and distinct domains.
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: master switch (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: collector address for the otlp exporters
//   - OTEL_TRACES_SAMPLER_ARG: sampling ratio 0.0 to 1.0 (default: 0.1)
//   - OTEL_SERVICE_NAME: service name (default: calendar-mcp)
//   - METRICS_DETAILED_LABELS: admit the account label (default: false)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_PII: audit stream
package instrumentation
