package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calagent/calagent/internal/calendar"
	"github.com/calagent/calagent/internal/server"
	"github.com/calagent/calagent/internal/tools/common"
)

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List/search calendar events within a time range. Without a timeMin the range starts at the beginning of the current day (UTC)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Start time for the range (RFC3339 format, e.g., '2025-01-01T00:00:00Z'). Defaults to the start of the current day in UTC."),
		),
		mcp.WithString("timeMax",
			mcp.Description("End time for the range (RFC3339 format, e.g., '2025-01-31T23:59:59Z'). Open-ended when omitted."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional free-text search query to filter events"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandler(
		"calendar_list_events", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	calendarID := "primary"
	if calIDVal, ok := args["calendarId"].(string); ok && calIDVal != "" {
		calendarID = calIDVal
	}

	var query calendar.ListQuery

	if timeMinStr, ok := args["timeMin"].(string); ok && timeMinStr != "" {
		timeMin, err := time.Parse(time.RFC3339, timeMinStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
		}
		query.TimeMin = timeMin
	}

	if timeMaxStr, ok := args["timeMax"].(string); ok && timeMaxStr != "" {
		timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
		}
		query.TimeMax = timeMax
	}

	if maxVal, ok := args["maxResults"].(float64); ok {
		if maxVal < 1 {
			return mcp.NewToolResultError("maxResults must be a positive number"), nil
		}
		query.MaxResults = int64(maxVal)
	}

	if queryVal, ok := args["query"].(string); ok {
		query.Query = queryVal
	}

	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(ctx, calendarID, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	return mcp.NewToolResultText(formatEvents(events)), nil
}

// formatEvents renders event summaries as readable text for the model.
func formatEvents(events []calendar.EventSummary) string {
	if len(events) == 0 {
		return "No events found in the requested time range."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d events:\n\n", len(events))
	for i, event := range events {
		fmt.Fprintf(&b, "%d. %s\n", i+1, event.Summary)
		fmt.Fprintf(&b, "   ID: %s\n", event.ID)
		if event.AllDay {
			fmt.Fprintf(&b, "   Date: %s (all day)\n", event.Start.Format("2006-01-02"))
		} else {
			fmt.Fprintf(&b, "   Start: %s\n", event.Start.Format(time.RFC3339))
			fmt.Fprintf(&b, "   End: %s\n", event.End.Format(time.RFC3339))
		}
		if event.Location != "" {
			fmt.Fprintf(&b, "   Location: %s\n", event.Location)
		}
		if event.MeetLink != "" {
			fmt.Fprintf(&b, "   Meet: %s\n", event.MeetLink)
		}
		if len(event.Attendees) > 0 {
			fmt.Fprintf(&b, "   Attendees: %d\n", len(event.Attendees))
		}
		b.WriteString("\n")
	}

	return b.String()
}
