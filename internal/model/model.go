package model

import (
	"context"
	"encoding/json"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Stop reasons reported by a Reply. Providers map their native stop
// reasons onto these values.
const (
	StopEndTurn   = "end_turn"
	StopToolUse   = "tool_use"
	StopMaxTokens = "max_tokens"
)

// ToolSchema describes a tool the model may request during generation.
// Properties holds the JSON Schema property map for the tool's input
// object, and Required lists the property names the model must supply.
type ToolSchema struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// ToolCall is a single tool invocation requested by the model.
// Arguments is the raw JSON input object the model produced.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult carries the outcome of a tool call back to the model.
// CallID must match the ID of the originating ToolCall.
type ToolResult struct {
	CallID  string
	Content string
	IsError bool
}

// Message is one turn of a model conversation. Assistant turns may
// carry ToolCalls alongside text; user turns may carry ToolResults.
type Message struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// Request is a single generation request against a Provider.
type Request struct {
	// System is the system prompt, empty for none.
	System string
	// Messages is the conversation so far, oldest first.
	Messages []Message
	// Tools the model may call during this request.
	Tools []ToolSchema
	// MaxTokens caps the generated output. Zero selects the
	// provider default.
	MaxTokens int64
}

// Reply is the model's response to a Request.
type Reply struct {
	// Text is the concatenated text content of the reply.
	Text string
	// ToolCalls holds the tool invocations the model requested,
	// in the order they appeared.
	ToolCalls []ToolCall
	// StopReason records why generation stopped.
	StopReason string
}

// WantsTools reports whether the model paused to request tool results.
func (r *Reply) WantsTools() bool {
	return len(r.ToolCalls) > 0
}

// AsMessage converts the reply into an assistant Message suitable for
// appending to the conversation before sending tool results.
func (r *Reply) AsMessage() Message {
	return Message{
		Role:      RoleAssistant,
		Text:      r.Text,
		ToolCalls: r.ToolCalls,
	}
}

// Provider generates model replies. Implementations must honor
// cancellation and deadlines on the supplied context.
type Provider interface {
	Generate(ctx context.Context, req *Request) (*Reply, error)
}
