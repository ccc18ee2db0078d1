package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/service"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/tools/common"
)

// RegisterEventTools registers the event tools with the MCP server. The tools
// mirror the facade routes one to one and share their field names, so a
// request that works against the HTTP API works here too.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// list_events stays registered even in read-only mode
	listEventsTool := mcp.NewTool("list_events",
		mcp.WithDescription("List the next upcoming events from the primary Google Calendar (at most 10, soonest first)"),
	)

	s.AddTool(listEventsTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler(
		"list_events", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		})))

	// Write tools are skipped in read-only mode
	if readOnly {
		return nil
	}

	// Schedule event tool
	scheduleEventTool := mcp.NewTool("schedule_event",
		mcp.WithDescription("Schedule a new event on the primary Google Calendar and email invitations to the attendees"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 with offset, e.g. '2025-01-15T14:00:00-08:00')"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("End time (RFC3339 with offset, e.g. '2025-01-15T15:00:00-08:00')"),
		),
		mcp.WithString("attendees",
			mcp.Description("Attendee email addresses, comma separated"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithBoolean("add_meet_link",
			mcp.Description("Attach a Google Meet link to the event"),
		),
	)

	s.AddTool(scheduleEventTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler(
		"schedule_event", "calendar", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleScheduleEvent(ctx, request, sc)
		})))

	// Update event tool
	updateEventTool := mcp.NewTool("update_event",
		mcp.WithDescription("Update an existing calendar event; only the supplied fields change. Attendees are notified by email."),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title/summary"),
		),
		mcp.WithString("start_time",
			mcp.Description("New start time (RFC3339 with offset)"),
		),
		mcp.WithString("end_time",
			mcp.Description("New end time (RFC3339 with offset)"),
		),
		mcp.WithString("attendees",
			mcp.Description("New comma-separated list of attendee email addresses (replaces the current list)"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithBoolean("add_meet_link",
			mcp.Description("Attach a Google Meet link to the event"),
		),
	)

	s.AddTool(updateEventTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler(
		"update_event", "calendar", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		})))

	// Delete event tool
	deleteEventTool := mcp.NewTool("delete_event",
		mcp.WithDescription("Delete a calendar event and email a cancellation notice to its attendees"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)

	s.AddTool(deleteEventTool, mcpserver.ToolHandlerFunc(common.InstrumentedToolHandler(
		"delete_event", "calendar", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		})))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := getServiceClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	listing, err := client.ListEvents(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	if len(listing.Events) == 0 {
		return mcp.NewToolResultText("No upcoming events found."), nil
	}

	result := fmt.Sprintf("%s:\n\n", listing.Message)
	for i, event := range listing.Events {
		result += fmt.Sprintf("%d. %s\n", i+1, event.Summary)
		result += fmt.Sprintf("   ID: %s\n", event.ID)
		result += fmt.Sprintf("   Start: %s\n", event.Start)
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleScheduleEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	startTime, ok := args["start_time"].(string)
	if !ok || startTime == "" {
		return mcp.NewToolResultError("start_time is required"), nil
	}

	endTime, ok := args["end_time"].(string)
	if !ok || endTime == "" {
		return mcp.NewToolResultError("end_time is required"), nil
	}

	req := service.ScheduleRequest{
		Summary:   summary,
		StartTime: startTime,
		EndTime:   endTime,
	}

	if desc, ok := args["description"].(string); ok {
		req.Description = desc
	}
	if attendeesStr, ok := args["attendees"].(string); ok && attendeesStr != "" {
		req.Attendees = common.SplitEmailList(attendeesStr)
	}
	if addMeet, ok := args["add_meet_link"].(bool); ok {
		req.AddMeetLink = addMeet
	}

	client, err := getServiceClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := client.Schedule(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to schedule event: %v", err)), nil
	}

	return mcp.NewToolResultText(formatMutationResult(created)), nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, ok := args["event_id"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}

	req := service.UpdateRequest{EventID: eventID}

	if summary, ok := args["summary"].(string); ok && summary != "" {
		req.Summary = &summary
	}
	if startTime, ok := args["start_time"].(string); ok && startTime != "" {
		req.StartTime = &startTime
	}
	if endTime, ok := args["end_time"].(string); ok && endTime != "" {
		req.EndTime = &endTime
	}
	if desc, ok := args["description"].(string); ok {
		req.Description = &desc
	}
	if attendeesStr, ok := args["attendees"].(string); ok && attendeesStr != "" {
		req.Attendees = common.SplitEmailList(attendeesStr)
	}
	if addMeet, ok := args["add_meet_link"].(bool); ok {
		req.AddMeetLink = &addMeet
	}

	client, err := getServiceClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	updated, err := client.UpdateEvent(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update event: %v", err)), nil
	}

	return mcp.NewToolResultText(formatMutationResult(updated)), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, ok := args["event_id"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}

	client, err := getServiceClient(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	deleted, err := client.DeleteEvent(ctx, eventID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}

	return mcp.NewToolResultText(deleted.Message), nil
}

// formatMutationResult renders a schedule/update response as readable text.
func formatMutationResult(res *service.MutationResult) string {
	result := res.Message + "\n"
	if res.EventLink != "" {
		result += fmt.Sprintf("Event link: %s\n", res.EventLink)
	}
	if res.HangoutLink != nil && *res.HangoutLink != "" {
		result += fmt.Sprintf("Google Meet: %s\n", *res.HangoutLink)
	}
	return result
}
