package cmd

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestGenerateToolsMarkdown(t *testing.T) {
	tools := []mcp.Tool{
		mcp.NewTool("schedule_event",
			mcp.WithDescription("Schedule an event"),
			mcp.WithString("summary",
				mcp.Required(),
				mcp.Description("Event title"),
			),
			mcp.WithBoolean("add_meet_link",
				mcp.Description("Attach a Google Meet link"),
			),
		),
		mcp.NewTool("list_events",
			mcp.WithDescription("List upcoming events"),
		),
	}

	markdown := generateToolsMarkdown(tools)

	for _, want := range []string{
		"# MCP Tools Reference",
		"- [list_events](#list_events)",
		"- [schedule_event](#schedule_event)",
		"## Calendar Agent API",
		"### list_events",
		"List upcoming events",
		"### schedule_event",
		"`summary` (required): Event title",
		"`add_meet_link` (optional): Attach a Google Meet link",
	} {
		if !strings.Contains(markdown, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestGenerateToolsMarkdown_SortsByName(t *testing.T) {
	tools := []mcp.Tool{
		mcp.NewTool("update_event", mcp.WithDescription("Update")),
		mcp.NewTool("delete_event", mcp.WithDescription("Delete")),
		mcp.NewTool("list_events", mcp.WithDescription("List")),
	}

	markdown := generateToolsMarkdown(tools)

	del := strings.Index(markdown, "### delete_event")
	list := strings.Index(markdown, "### list_events")
	upd := strings.Index(markdown, "### update_event")
	if del < 0 || list < 0 || upd < 0 {
		t.Fatal("markdown is missing a tool section")
	}
	if !(del < list && list < upd) {
		t.Errorf("tool sections out of order: delete=%d list=%d update=%d", del, list, upd)
	}
}

func TestWriteToolSection_RequiredArgsFirst(t *testing.T) {
	tool := mcp.NewTool("schedule_event",
		mcp.WithDescription("Schedule an event"),
		mcp.WithString("attendees", mcp.Description("Comma-separated attendee emails")),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Event title")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("RFC3339 start")),
	)

	var sb strings.Builder
	writeToolSection(&sb, tool)
	out := sb.String()

	start := strings.Index(out, "`start_time` (required)")
	summary := strings.Index(out, "`summary` (required)")
	attendees := strings.Index(out, "`attendees` (optional)")
	if start < 0 || summary < 0 || attendees < 0 {
		t.Fatalf("section is missing an argument line:\n%s", out)
	}
	if !(start < summary && summary < attendees) {
		t.Errorf("arguments out of order: start_time=%d summary=%d attendees=%d", start, summary, attendees)
	}
}

func TestWriteToolSection_NoArguments(t *testing.T) {
	tool := mcp.NewTool("list_events", mcp.WithDescription("List upcoming events"))

	var sb strings.Builder
	writeToolSection(&sb, tool)
	out := sb.String()

	if strings.Contains(out, "**Arguments:**") {
		t.Errorf("section for an argument-free tool should not list arguments:\n%s", out)
	}
}
