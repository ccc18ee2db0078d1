// Package calendar_tools provides the MCP (Model Context Protocol) tools for
// the calendar agent.
//
// The tools mirror the HTTP facade one to one: list_events, schedule_event,
// update_event and delete_event. Handlers are stateless and forward every
// call to the facade through the service client, so the agent semantics
// (validation, notification fan-out, error taxonomy) live in exactly one
// place regardless of which surface a caller uses.
package calendar_tools
