// Package resources provides MCP resources for exposing service state.
// Resources are read-only data sources that MCP clients can fetch, such as
// the calendar service status document.
package resources
