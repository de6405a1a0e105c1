package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calagent/calagent/internal/server"
	"github.com/calagent/calagent/internal/tasks"
	"github.com/calagent/calagent/internal/tools/common"
)

// RegisterReminderTools registers reminder-related tools with the MCP server
func RegisterReminderTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listRemindersTool := mcp.NewTool("calendar_list_reminders",
		mcp.WithDescription("List open reminders (Google Tasks) across all task lists, bounded by a due-date window. Without a dueMin the window starts at the beginning of the current day (UTC)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("dueMin",
			mcp.Description("Earliest due date to include (RFC3339 format). Defaults to the start of the current day in UTC."),
		),
		mcp.WithString("dueMax",
			mcp.Description("Latest due date to include (RFC3339 format). Open-ended when omitted."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of reminders to return (default: 10)"),
		),
		mcp.WithBoolean("showCompleted",
			mcp.Description("Include completed reminders (default: false)"),
		),
	)

	s.AddTool(listRemindersTool, common.InstrumentedToolHandler(
		"calendar_list_reminders", "tasks", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListReminders(ctx, request, sc)
		}))

	return nil
}

func handleListReminders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	var query tasks.ListQuery

	if dueMinStr, ok := args["dueMin"].(string); ok && dueMinStr != "" {
		dueMin, err := time.Parse(time.RFC3339, dueMinStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid dueMin format: %v", err)), nil
		}
		query.DueMin = dueMin
	}

	if dueMaxStr, ok := args["dueMax"].(string); ok && dueMaxStr != "" {
		dueMax, err := time.Parse(time.RFC3339, dueMaxStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid dueMax format: %v", err)), nil
		}
		query.DueMax = dueMax
	}

	if maxVal, ok := args["maxResults"].(float64); ok {
		if maxVal < 1 {
			return mcp.NewToolResultError("maxResults must be a positive number"), nil
		}
		query.MaxResults = int64(maxVal)
	}

	if showVal, ok := args["showCompleted"].(bool); ok {
		query.ShowCompleted = showVal
	}

	client, err := getTasksClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reminders, err := client.ListReminders(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list reminders: %v", err)), nil
	}

	return mcp.NewToolResultText(formatReminders(reminders)), nil
}

// formatReminders renders reminders as readable text for the model.
func formatReminders(reminders []tasks.Reminder) string {
	if len(reminders) == 0 {
		return "No reminders found in the requested due-date window."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d reminders:\n\n", len(reminders))
	for i, reminder := range reminders {
		fmt.Fprintf(&b, "%d. %s\n", i+1, reminder.Title)
		fmt.Fprintf(&b, "   List: %s\n", reminder.List)
		if !reminder.Due.IsZero() {
			fmt.Fprintf(&b, "   Due: %s\n", reminder.Due.Format("2006-01-02"))
		}
		if reminder.Status == "completed" {
			b.WriteString("   Status: completed\n")
		}
		if reminder.Notes != "" {
			fmt.Fprintf(&b, "   Notes: %s\n", reminder.Notes)
		}
		b.WriteString("\n")
	}

	return b.String()
}
