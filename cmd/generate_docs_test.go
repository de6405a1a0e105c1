package cmd

import (
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		toolName string
		expected string
	}{
		{
			name:     "calendar tool",
			toolName: "calendar_list_events",
			expected: "Calendar Tools",
		},
		{
			name:     "reminder tool is calendar-prefixed",
			toolName: "calendar_list_reminders",
			expected: "Calendar Tools",
		},
		{
			name:     "tasks tool",
			toolName: "tasks_list",
			expected: "Tasks Tools",
		},
		{
			name:     "unknown prefix",
			toolName: "weather_forecast",
			expected: "Other",
		},
		{
			name:     "no underscore",
			toolName: "calendar",
			expected: "Calendar Tools",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getCategoryFromToolName(tt.toolName)
			if result != tt.expected {
				t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.toolName, result, tt.expected)
			}
		})
	}
}

func TestGenerateToolMarkdown(t *testing.T) {
	tool := mcp.Tool{
		Name:        "calendar_list_events",
		Description: "List calendar events for a time window",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"timeMin": map[string]any{
					"type":        "string",
					"description": "Start of the window (RFC3339)",
				},
				"maxResults": map[string]any{
					"type": "number",
				},
			},
			Required: []string{"timeMin"},
		},
	}

	markdown := generateToolMarkdown(tool)

	if !strings.Contains(markdown, "### calendar_list_events") {
		t.Errorf("markdown missing tool heading:\n%s", markdown)
	}
	if !strings.Contains(markdown, "List calendar events for a time window") {
		t.Errorf("markdown missing description:\n%s", markdown)
	}
	if !strings.Contains(markdown, "`timeMin` (required): Start of the window (RFC3339)") {
		t.Errorf("markdown missing required argument line:\n%s", markdown)
	}
	if !strings.Contains(markdown, "`maxResults` (optional): number parameter") {
		t.Errorf("markdown missing optional argument fallback:\n%s", markdown)
	}
}

func TestGenerateToolsMarkdownGroupsByCategory(t *testing.T) {
	tools := []mcp.Tool{
		{Name: "calendar_list_events", Description: "events"},
		{Name: "calendar_list_reminders", Description: "reminders"},
		{Name: "weather_forecast", Description: "off-domain"},
	}

	markdown := generateToolsMarkdown(tools)

	if !strings.Contains(markdown, "## Calendar Tools") {
		t.Errorf("markdown missing calendar category:\n%s", markdown)
	}
	if !strings.Contains(markdown, "## Other") {
		t.Errorf("markdown missing fallback category:\n%s", markdown)
	}
	if !strings.Contains(markdown, "## Table of Contents") {
		t.Errorf("markdown missing table of contents:\n%s", markdown)
	}
}
