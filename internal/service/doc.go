// Package service is the HTTP client for the calendar facade API.
//
// The MCP tools never talk to Google directly; they forward every call
// through this client to the facade, which owns the calendar agent. The
// client holds no state beyond its base URL and transport, both injectable
// so tests can point it at an httptest server.
//
// Non-2xx responses are decoded into an APIError carrying the facade's
// status code and message, which the tool layer passes through verbatim.
package service
