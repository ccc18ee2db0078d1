package calendar_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/service"
)

// getServiceClient returns the facade API client from the server context.
// The serve command wires one at startup, so a nil client means the server
// was started without a facade endpoint.
func getServiceClient(sc *server.ServerContext) (*service.Client, error) {
	client := sc.ServiceClient()
	if client == nil {
		return nil, fmt.Errorf("calendar service client is not configured. Set CALENDAR_SERVICE_URL (or --service-url) to the facade endpoint, e.g. %s", service.DefaultBaseURL)
	}
	return client, nil
}

// RegisterCalendarTools registers all calendar agent tools with the MCP server.
// In read-only mode the write tools (schedule_event, update_event,
// delete_event) are skipped.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterEventTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	return nil
}
