// Package cmd wires the cobra command tree for the calendar agent.
//
// serve runs the MCP server and is what a bare invocation starts. api runs
// the HTTP facade the MCP tools forward to. auth walks the Google OAuth
// flow and stores a token on disk. generate-docs and version are build
// tooling.
package cmd
