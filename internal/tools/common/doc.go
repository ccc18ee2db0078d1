// Package common provides shared helpers for MCP tool implementations:
// extraction of well-known request arguments (account, event ID, attendees)
// and an instrumentation wrapper that records metrics and audit logs around
// tool handlers.
package common
