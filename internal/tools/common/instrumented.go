package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/instrumentation"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
)

// ToolHandlerFunc is the handler signature the MCP server accepts for tools.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging. Each call runs inside a tool span, records an MCP tool
// invocation plus an operation metric for the backing service, and emits one
// audit record describing the target of the call (account, event, attendees).
//
// Handlers report domain failures through result.IsError rather than a Go
// error, so both paths count as errors here; only the Go error marks the
// span as failed, a domain failure is noted as a span event.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("schedule_event", "calendar", "create", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandlerFunc,
) ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// Without instrumentation there is nothing to record.
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		args := request.GetArguments()
		account := GetAccountFromArgs(args)
		eventID := GetEventIDFromArgs(args)
		attendees := GetAttendeesFromArgs(args)

		spanAttrs := instrumentation.NewSpanAttributeBuilder().
			WithService(serviceName).
			WithOperation(operation).
			WithAccount(account).
			WithResource("event", eventID).
			Build()
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithService(serviceName, operation).
			WithAccount(account).
			WithSpanContext(ctx)
		if eventID != "" {
			invocation.WithEvent(eventID)
		}
		if len(attendees) > 0 {
			invocation.WithAttendees(attendees)
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			instrumentation.AddSpanEvent(span, "tool.domain_error")
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, account, duration)
			metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, status, duration)
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
