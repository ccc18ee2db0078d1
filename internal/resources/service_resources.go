package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
)

// healthProbeTimeout bounds the reachability check on a resource read.
const healthProbeTimeout = 5 * time.Second

// RegisterServiceResources registers resources describing the calendar
// service this MCP server fronts.
func RegisterServiceResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	statusResource := mcp.NewResource(
		"calendar://service/status",
		"Calendar Service Status",
		mcp.WithResourceDescription("Configured facade endpoint, timezone, and reachability of the calendar service"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(statusResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleServiceStatus(ctx, request, sc)
	})

	return nil
}

// handleServiceStatus reports the facade configuration and probes its health
// endpoint. Reachability is checked on every read so the answer reflects the
// current state, not the state at startup.
func handleServiceStatus(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	statusData := map[string]interface{}{
		"timezone":  sc.TimeZone(),
		"checkedAt": time.Now().UTC().Format(time.RFC3339),
	}

	client := sc.ServiceClient()
	if client == nil {
		statusData["configured"] = false
		statusData["reachable"] = false
		statusData["description"] = "No calendar service endpoint configured"
	} else {
		statusData["configured"] = true
		statusData["serviceUrl"] = client.BaseURL()

		probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
		defer cancel()

		if err := client.Health(probeCtx); err != nil {
			statusData["reachable"] = false
			statusData["error"] = err.Error()
		} else {
			statusData["reachable"] = true
		}
	}

	jsonData, err := json.MarshalIndent(statusData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
