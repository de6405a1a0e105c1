package model

import (
	"encoding/json"
	"testing"
)

func TestReplyWantsTools(t *testing.T) {
	tests := []struct {
		name  string
		reply Reply
		want  bool
	}{
		{
			name:  "no tool calls",
			reply: Reply{Text: "done", StopReason: StopEndTurn},
			want:  false,
		},
		{
			name: "one tool call",
			reply: Reply{
				ToolCalls:  []ToolCall{{ID: "call_1", Name: "calendar_list_events"}},
				StopReason: StopToolUse,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reply.WantsTools(); got != tt.want {
				t.Errorf("WantsTools() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReplyAsMessage(t *testing.T) {
	reply := Reply{
		Text: "Checking your calendar.",
		ToolCalls: []ToolCall{
			{ID: "call_1", Name: "calendar_list_events", Arguments: json.RawMessage(`{"maxResults":5}`)},
		},
		StopReason: StopToolUse,
	}

	msg := reply.AsMessage()

	if msg.Role != RoleAssistant {
		t.Errorf("AsMessage().Role = %q, want %q", msg.Role, RoleAssistant)
	}
	if msg.Text != reply.Text {
		t.Errorf("AsMessage().Text = %q, want %q", msg.Text, reply.Text)
	}
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].ID != "call_1" {
		t.Errorf("AsMessage().ToolCalls = %+v, want the reply's tool call", msg.ToolCalls)
	}
	if len(msg.ToolResults) != 0 {
		t.Errorf("AsMessage().ToolResults = %+v, want empty", msg.ToolResults)
	}
}
