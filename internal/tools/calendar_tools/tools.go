package calendar_tools

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calagent/calagent/internal/calendar"
	"github.com/calagent/calagent/internal/server"
	"github.com/calagent/calagent/internal/tasks"
)

// getCalendarClient retrieves or creates a calendar client for the specified
// account. Creation happens inside the server context's lock so concurrent
// tool calls share one client (and one token source) per account.
func getCalendarClient(ctx context.Context, account string, sc *server.ServerContext) (*calendar.Client, error) {
	if client := sc.CalendarClientForAccount(account); client != nil {
		return client, nil
	}
	if !sc.TokenProvider().HasTokenForAccount(account) {
		return nil, fmt.Errorf("no Google OAuth token found for account %q; run the auth command to authorize access", account)
	}
	return nil, fmt.Errorf("failed to create Calendar client for account %s", account)
}

// getTasksClient retrieves or creates a tasks client for the specified account
func getTasksClient(ctx context.Context, account string, sc *server.ServerContext) (*tasks.Client, error) {
	if client := sc.TasksClientForAccount(account); client != nil {
		return client, nil
	}
	if !sc.TokenProvider().HasTokenForAccount(account) {
		return nil, fmt.Errorf("no Google OAuth token found for account %q; run the auth command to authorize access", account)
	}
	return nil, fmt.Errorf("failed to create Tasks client for account %s", account)
}

// RegisterCalendarTools registers the calendar and reminder tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterEventTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	if err := RegisterReminderTools(s, sc); err != nil {
		return fmt.Errorf("failed to register reminder tools: %w", err)
	}

	return nil
}
