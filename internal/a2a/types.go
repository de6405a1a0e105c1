package a2a

import (
	"encoding/json"
	"strings"
)

// Task lifecycle states. A task enters exactly one terminal state
// (completed or failed) and never leaves it. Cancellation surfaces as
// failed with a Cancelled reason rather than a dedicated state.
const (
	TaskStateSubmitted = "submitted"
	TaskStateWorking   = "working"
	TaskStateCompleted = "completed"
	TaskStateFailed    = "failed"
)

// IsTerminalState reports whether state permits no further transitions.
func IsTerminalState(state string) bool {
	return state == TaskStateCompleted || state == TaskStateFailed
}

// Part is one piece of message or artifact content. Only text parts
// are produced here.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

// NewTextPart wraps text in a Part.
func NewTextPart(text string) Part {
	return Part{Kind: "text", Text: text}
}

// Message is a single user or agent message in the protocol envelope.
type Message struct {
	Kind      string `json:"kind"`
	MessageID string `json:"messageId"`
	Role      string `json:"role"`
	Parts     []Part `json:"parts"`
	TaskID    string `json:"taskId,omitempty"`
	ContextID string `json:"contextId,omitempty"`
}

// Text flattens the message's text parts.
func (m *Message) Text() string {
	var sb strings.Builder
	for _, part := range m.Parts {
		if part.Kind != "text" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// TaskStatus is the current lifecycle position of a task, optionally
// carrying the message that accompanied the transition.
type TaskStatus struct {
	State     string   `json:"state"`
	Message   *Message `json:"message,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// Artifact is an output produced by a completed task.
type Artifact struct {
	ArtifactID string `json:"artifactId"`
	Name       string `json:"name,omitempty"`
	Parts      []Part `json:"parts"`
}

// Task is the protocol view of one unit of agent work.
type Task struct {
	ID        string         `json:"id"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	History   []Message      `json:"history,omitempty"`
	Artifacts []Artifact     `json:"artifacts,omitempty"`
	Kind      string         `json:"kind"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// OutputText returns the task's user-facing answer: the status message
// if present, otherwise the first text artifact.
func (t *Task) OutputText() string {
	if t.Status.Message != nil {
		if text := t.Status.Message.Text(); text != "" {
			return text
		}
	}
	for _, artifact := range t.Artifacts {
		for _, part := range artifact.Parts {
			if part.Kind == "text" && part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// StatusUpdateEvent is one streamed task transition. Final marks the
// terminal event of a stream.
type StatusUpdateEvent struct {
	Kind      string     `json:"kind"`
	TaskID    string     `json:"taskId"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	Final     bool       `json:"final"`
}

// AgentCapabilities advertises optional protocol features.
type AgentCapabilities struct {
	Streaming bool `json:"streaming"`
}

// AgentSkill describes one capability on the agent card.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// AgentCard is the discovery document served at
// /.well-known/agent.json.
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	ProtocolVersion    string            `json:"protocolVersion"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	DefaultInputModes  []string          `json:"defaultInputModes"`
	DefaultOutputModes []string          `json:"defaultOutputModes"`
	Skills             []AgentSkill      `json:"skills"`
}

// JSON-RPC 2.0 envelope.

type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *jsonrpcError) Error() string {
	return e.Message
}

// Standard JSON-RPC error codes plus the A2A task errors.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603

	codeTaskNotFound      = -32001
	codeTaskNotCancelable = -32002
)

// MessageSendParams is the payload of message/send and message/stream.
type MessageSendParams struct {
	Message Message `json:"message"`
}

// TaskIDParams identifies a task for tasks/get and tasks/cancel.
type TaskIDParams struct {
	ID string `json:"id"`
}
