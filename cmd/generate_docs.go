package cmd

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/server"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/tools/calendar_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for the MCP tools.

The documentation is produced from the registered tool definitions, so it
cannot drift from what the server actually exposes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// The facade is never called during doc generation; the server context
	// only contributes defaults.
	serverContext := server.NewServerContext(defaultTimezone)

	mcpSrv := mcpserver.NewMCPServer("google-calendar-server", version,
		mcpserver.WithToolCapabilities(true),
	)

	// Write mode, so the scheduling tools are documented alongside
	// list_events.
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext, false); err != nil {
		return fmt.Errorf("failed to register Calendar tools: %w", err)
	}

	serverTools := mcpSrv.ListTools()
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}

	markdown := generateToolsMarkdown(tools)

	if outputFile == "" {
		fmt.Print(markdown)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

// generateToolsMarkdown renders the reference document: a table of
// contents, a note on how calls reach the calendar agent, and one section
// per tool in name order.
func generateToolsMarkdown(tools []mcp.Tool) string {
	sorted := make([]mcp.Tool, len(tools))
	copy(sorted, tools)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running google-calender-mcp-server as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, tool := range sorted {
		// Tool names are lowercase with underscores, which GitHub keeps
		// verbatim in heading anchors.
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", tool.Name, tool.Name))
	}
	sb.WriteString("\n")

	sb.WriteString("## Calendar Agent API\n\n")
	sb.WriteString("The tools do not talk to Google directly. Every call is forwarded over HTTP to the calendar agent API:\n\n")
	sb.WriteString("- **Default endpoint:** `http://127.0.0.1:5002` (run it with the `api` command)\n")
	sb.WriteString("- **Override:** `--service-url` flag or `CALENDAR_SERVICE_URL` env var\n")
	sb.WriteString("- **Read-only mode:** With `--readonly`, only `list_events` is registered\n\n")

	sb.WriteString("## Tools\n\n")
	for _, tool := range sorted {
		writeToolSection(&sb, tool)
	}

	return sb.String()
}

// writeToolSection renders one tool: heading, description, and arguments
// with the required ones listed first.
func writeToolSection(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return
	}

	required := func(name string) bool {
		return slices.Contains(tool.InputSchema.Required, name)
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if ri, rj := required(names[i]), required(names[j]); ri != rj {
			return ri
		}
		return names[i] < names[j]
	})

	sb.WriteString("**Arguments:**\n")
	for _, name := range names {
		prop, ok := props[name].(map[string]interface{})
		if !ok {
			continue
		}

		kind := "optional"
		if required(name) {
			kind = "required"
		}

		desc, _ := prop["description"].(string)
		if desc == "" {
			if t, ok := prop["type"].(string); ok {
				desc = t + " parameter"
			} else {
				desc = "parameter"
			}
		}

		fmt.Fprintf(sb, "- `%s` (%s): %s\n", name, kind, desc)
	}
	sb.WriteString("\n")
}
