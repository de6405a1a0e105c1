package calendar_tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calagent/calagent/internal/calendar"
	"github.com/calagent/calagent/internal/google"
	"github.com/calagent/calagent/internal/server"
	"github.com/calagent/calagent/internal/tasks"
)

func newServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), google.NewCredentialStore())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestRegisterCalendarTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.1")
	sc := newServerContext(t)

	if err := RegisterCalendarTools(s, sc); err != nil {
		t.Fatalf("RegisterCalendarTools() error = %v", err)
	}
}

func TestHandleListEventsInvalidArguments(t *testing.T) {
	sc := newServerContext(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantMsg string
	}{
		{
			name:    "bad timeMin",
			args:    map[string]interface{}{"timeMin": "yesterday"},
			wantMsg: "Invalid timeMin",
		},
		{
			name:    "bad timeMax",
			args:    map[string]interface{}{"timeMax": "2025-13-45"},
			wantMsg: "Invalid timeMax",
		},
		{
			name:    "non-positive maxResults",
			args:    map[string]interface{}{"maxResults": float64(0)},
			wantMsg: "maxResults must be a positive number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleListEvents(context.Background(), newCallToolRequest("calendar_list_events", tt.args), sc)
			if err != nil {
				t.Fatalf("handleListEvents() error = %v", err)
			}
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if text := resultText(t, result); !strings.Contains(text, tt.wantMsg) {
				t.Errorf("result = %q, want substring %q", text, tt.wantMsg)
			}
		})
	}
}

func TestHandleListEventsNoToken(t *testing.T) {
	sc := newServerContext(t)

	result, err := handleListEvents(context.Background(), newCallToolRequest("calendar_list_events", nil), sc)
	if err != nil {
		t.Fatalf("handleListEvents() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result without a stored token")
	}
	if text := resultText(t, result); !strings.Contains(text, "no Google OAuth token") {
		t.Errorf("result = %q, want token guidance", text)
	}
}

func TestHandleListRemindersInvalidArguments(t *testing.T) {
	sc := newServerContext(t)

	result, err := handleListReminders(context.Background(),
		newCallToolRequest("calendar_list_reminders", map[string]interface{}{"dueMin": "not-a-date"}), sc)
	if err != nil {
		t.Fatalf("handleListReminders() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if text := resultText(t, result); !strings.Contains(text, "Invalid dueMin") {
		t.Errorf("result = %q, want dueMin complaint", text)
	}
}

func TestFormatEvents(t *testing.T) {
	if got := formatEvents(nil); !strings.Contains(got, "No events") {
		t.Errorf("formatEvents(nil) = %q", got)
	}

	events := []calendar.EventSummary{
		{
			ID:      "evt-1",
			Summary: "Standup",
			Start:   time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 3, 14, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:       "evt-2",
			Summary:  "Review",
			Start:    time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC),
			End:      time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC),
			Location: "Room 2",
		},
	}

	got := formatEvents(events)
	if !strings.Contains(got, "Found 2 events") {
		t.Errorf("formatEvents() missing count: %q", got)
	}
	if !strings.Contains(got, "Standup") || !strings.Contains(got, "Review") {
		t.Errorf("formatEvents() missing summaries: %q", got)
	}
	if !strings.Contains(got, "Room 2") {
		t.Errorf("formatEvents() missing location: %q", got)
	}
}

func TestFormatEventsAllDay(t *testing.T) {
	events := []calendar.EventSummary{
		{
			ID:      "evt-3",
			Summary: "Holiday",
			Start:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			AllDay:  true,
		},
	}

	got := formatEvents(events)
	if !strings.Contains(got, "all day") {
		t.Errorf("formatEvents() should mark all-day events: %q", got)
	}
}

func TestFormatReminders(t *testing.T) {
	if got := formatReminders(nil); !strings.Contains(got, "No reminders") {
		t.Errorf("formatReminders(nil) = %q", got)
	}

	reminders := []tasks.Reminder{
		{
			ID:    "task-1",
			Title: "File expense report",
			List:  "Work",
			Due:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:     "task-2",
			Title:  "Buy groceries",
			List:   "Errands",
			Status: "completed",
		},
	}

	got := formatReminders(reminders)
	if !strings.Contains(got, "Found 2 reminders") {
		t.Errorf("formatReminders() missing count: %q", got)
	}
	if !strings.Contains(got, "File expense report") {
		t.Errorf("formatReminders() missing title: %q", got)
	}
	if !strings.Contains(got, "Status: completed") {
		t.Errorf("formatReminders() missing completed status: %q", got)
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}
