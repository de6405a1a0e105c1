package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calagent/calagent/internal/server"
)

// RegisterCalendarResources registers read-only resources describing the
// calendars and task lists the default account can read. They let MCP clients
// discover what data the tools operate on without calling the tools.
func RegisterCalendarResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	calendarsResource := mcp.NewResource(
		"calendar://calendars",
		"Available Calendars",
		mcp.WithResourceDescription("Calendars readable by the authorized Google account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(calendarsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendarList(ctx, request, sc)
	})

	taskListsResource := mcp.NewResource(
		"tasks://lists",
		"Task Lists",
		mcp.WithResourceDescription("Task lists readable by the authorized Google account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(taskListsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleTaskLists(ctx, request, sc)
	})

	return nil
}

// handleCalendarList returns the calendars visible to the default account
func handleCalendarList(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	client := sc.CalendarClient()
	if client == nil {
		return nil, fmt.Errorf("no Calendar client available for account: default")
	}

	calendars, err := client.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	entries := make([]map[string]interface{}, 0, len(calendars))
	for _, c := range calendars {
		entries = append(entries, map[string]interface{}{
			"id":         c.ID,
			"summary":    c.Summary,
			"timeZone":   c.TimeZone,
			"primary":    c.Primary,
			"accessRole": c.AccessRole,
		})
	}

	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"account":   client.Account(),
		"calendars": entries,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal calendar data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleTaskLists returns the task lists visible to the default account
func handleTaskLists(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	client := sc.TasksClient()
	if client == nil {
		return nil, fmt.Errorf("no Tasks client available for account: default")
	}

	taskLists, err := client.ListTaskLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}

	entries := make([]map[string]interface{}, 0, len(taskLists))
	for _, tl := range taskLists {
		entries = append(entries, map[string]interface{}{
			"id":      tl.ID,
			"title":   tl.Title,
			"updated": tl.Updated,
		})
	}

	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"account":   client.Account(),
		"taskLists": entries,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task list data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
